package entities

import (
	"fmt"
	"strings"
)

// ExecutionMode identifies the backend a capability client is bound to.
type ExecutionMode string

const (
	// ModeNative binds to a native host that exposes capability functions directly.
	ModeNative ExecutionMode = "native-embedded"

	// ModeProxy binds to proxy objects exposed by an enclosing container application.
	ModeProxy ExecutionMode = "hosted-proxy"

	// ModeRemote binds to the REST/JSON bridge service.
	ModeRemote ExecutionMode = "remote-bridge"
)

// Valid reports whether m is one of the three known modes.
func (m ExecutionMode) Valid() bool {
	switch m {
	case ModeNative, ModeProxy, ModeRemote:
		return true
	default:
		return false
	}
}

func (m ExecutionMode) String() string {
	return string(m)
}

// ParseMode parses a mode name. Besides the canonical names it accepts the short
// aliases "native", "proxy" and "remote". The empty string parses to the empty mode,
// which means "not forced".
func ParseMode(s string) (ExecutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "native", string(ModeNative):
		return ModeNative, nil
	case "proxy", string(ModeProxy):
		return ModeProxy, nil
	case "remote", "bridge", string(ModeRemote):
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unknown execution mode %q", s)
	}
}

// ProbeState records the outcome of the liveness probe a remote-bridge client runs at
// construction. Remote clients are returned even when the probe fails; the state lets
// callers tell "probed healthy" from "probed unreachable, failure deferred".
type ProbeState string

const (
	ProbeNotProbed   ProbeState = "not-probed"
	ProbeHealthy     ProbeState = "healthy"
	ProbeUnreachable ProbeState = "unreachable"
)
