package hosttest

import (
	"context"
	"encoding/json"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/hostfuncs"
)

// Bundle returns the native functions of one capability.
func (b *Backend) Bundle(capability entities.Capability) hostfuncs.Bundle {
	ops := map[string]hostfuncs.ByteHandler{}
	for op := range b.operations()[capability] {
		ops[op] = hostfuncs.NewJSONHandler(func(ctx context.Context, payload json.RawMessage) (any, error) {
			return b.invoke(ctx, capability, op, payload)
		})
	}
	return hostfuncs.CapabilityBundle(capability, ops)
}

// NativeHost returns a registry exposing the given capabilities (all when none are
// named) as native functions.
func (b *Backend) NativeHost(caps ...entities.Capability) *hostfuncs.HandlerRegistry {
	if len(caps) == 0 {
		caps = entities.AllCapabilities()
	}
	bundles := make([]hostfuncs.Bundle, 0, len(caps))
	for _, c := range caps {
		bundles = append(bundles, b.Bundle(c))
	}
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware(), hostfuncs.LoggingMiddleware(b.logger)),
		hostfuncs.WithBundle(hostfuncs.Combine(bundles...)),
	)
	if err != nil {
		panic(err)
	}
	return reg
}
