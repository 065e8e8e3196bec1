package hosttest

import "github.com/reglet-dev/hostcap/hostfuncs"

func notFound(msg string) error {
	return hostfuncs.NotFound(msg)
}

func badRequest(msg string) error {
	return &hostfuncs.HostError{Kind: "VALIDATION_ERROR", Message: msg, Code: 400}
}

func conflict(msg string) error {
	return &hostfuncs.HostError{Kind: "CONFLICT", Message: msg, Code: 409}
}
