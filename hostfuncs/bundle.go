package hostfuncs

import (
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Bundle is a set of related functions registered together, typically all
// operations of one capability.
type Bundle interface {
	// Handlers returns a map of function names to handlers.
	Handlers() map[string]ByteHandler
}

type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// CapabilityBundle names each operation handler after the capability's native
// function ("store" + "get" → "store.get").
func CapabilityBundle(capability entities.Capability, ops map[string]ByteHandler) Bundle {
	handlers := make(map[string]ByteHandler, len(ops))
	for op, h := range ops {
		handlers[wireformat.NativeFunction(capability, op)] = h
	}
	return &staticBundle{handlers: handlers}
}

type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		for name, handler := range bundle.Handlers() {
			result[name] = handler
		}
	}
	return result
}

// Combine merges several bundles into one. Later bundles win on name clashes.
func Combine(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle registers all handlers from a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}
