package ports

import "context"

// NativeHost is the native-embedded backend: a host runtime exposing capability
// functions as first-class bindings. Function names follow "<capability>.<operation>"
// (see wireformat.NativeFunction); payloads are the same JSON bodies the remote bridge
// accepts.
//
// A reply is either {"result": <value>} or an error object
// {"error": "<CODE>", "message": "<text>", "code": <int>}.
//
// Implementations: *hostfuncs.HandlerRegistry for in-process hosts, and
// infrastructure/wasm.HostAdapter when running as a WASM guest.
type NativeHost interface {
	// Has reports whether the host exposes the named function.
	Has(name string) bool

	// Invoke calls the named function with a JSON payload.
	Invoke(ctx context.Context, name string, payload []byte) ([]byte, error)
}
