//go:build wasip1

package wasm

import (
	"context"
	"fmt"

	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/internal/abi"
)

// Compile-time interface compliance check
var _ ports.NativeHost = (*HostAdapter)(nil)

// HostAdapter implements ports.NativeHost over the hostcap_host imports.
type HostAdapter struct{}

// NewHostAdapter creates a new HostAdapter.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{}
}

// Has reports whether the host exposes name.
func (a *HostAdapter) Has(name string) bool {
	namePacked := abi.PtrFromBytes([]byte(name))
	defer abi.DeallocatePacked(namePacked)
	return host_has(namePacked) == 1
}

// Invoke calls name with a JSON payload and returns the host's raw reply.
// The context is not propagated across the boundary.
func (a *HostAdapter) Invoke(_ context.Context, name string, payload []byte) ([]byte, error) {
	namePacked := abi.PtrFromBytes([]byte(name))
	defer abi.DeallocatePacked(namePacked)
	payloadPacked := abi.PtrFromBytes(payload)
	defer abi.DeallocatePacked(payloadPacked)

	replyPacked := host_invoke(namePacked, payloadPacked)
	reply := abi.BytesFromPtr(replyPacked)
	if reply == nil {
		return nil, fmt.Errorf("host returned null response for %s", name)
	}
	abi.DeallocatePacked(replyPacked)
	return reply, nil
}
