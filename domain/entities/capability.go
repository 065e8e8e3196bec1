package entities

import (
	"fmt"
	"strings"
)

// Capability names one host service domain. The value doubles as the key of the
// capability's sub-object in a container's exposed props and as the prefix of its
// native function names.
type Capability string

const (
	CapabilitySQL   Capability = "sql"
	CapabilityStore Capability = "store"
	CapabilityFS    Capability = "fs"
	CapabilityApps  Capability = "apps"
)

// AllCapabilities returns every capability in a stable order.
func AllCapabilities() []Capability {
	return []Capability{CapabilitySQL, CapabilityStore, CapabilityFS, CapabilityApps}
}

func (c Capability) String() string {
	return string(c)
}

// ParseCapability parses a capability name, accepting a few descriptive aliases.
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sql", "relational", "database":
		return CapabilitySQL, nil
	case "store", "kv", "key-value":
		return CapabilityStore, nil
	case "fs", "filesystem":
		return CapabilityFS, nil
	case "apps", "registry", "appregistry", "app-registry":
		return CapabilityApps, nil
	default:
		return "", fmt.Errorf("unknown capability %q", s)
	}
}
