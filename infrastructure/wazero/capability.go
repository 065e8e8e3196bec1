package wazero

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/hostcap/domain/entities"
)

// WithCapabilities limits guests to the named capabilities. Functions of other
// capabilities report false from has and are denied by invoke. Functions without
// a capability prefix (such as "log.message") stay reachable only when no limit
// is set or their prefix is listed.
func WithCapabilities(caps ...entities.Capability) AdapterOption {
	return func(c *AdapterConfig) {
		c.Capabilities = append(c.Capabilities, caps...)
	}
}

type capabilityFilter map[string]bool

func newCapabilityFilter(caps []entities.Capability) capabilityFilter {
	if len(caps) == 0 {
		return nil
	}
	f := capabilityFilter{}
	for _, c := range caps {
		f[string(c)] = true
	}
	return f
}

func (f capabilityFilter) allows(name string) bool {
	if f == nil {
		return true
	}
	prefix, _, _ := strings.Cut(name, ".")
	return f[prefix]
}

// CapabilityDeniedError represents a call to a function outside the allowed
// capabilities.
type CapabilityDeniedError struct {
	Guest    string
	Function string
}

func (e *CapabilityDeniedError) Error() string {
	return fmt.Sprintf("capability denied: guest %q may not call %s", e.Guest, e.Function)
}
