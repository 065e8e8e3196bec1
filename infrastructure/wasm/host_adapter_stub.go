//go:build !wasip1

package wasm

import (
	"context"
	"errors"

	"github.com/reglet-dev/hostcap/domain/ports"
)

// Compile-time interface compliance check
var _ ports.NativeHost = (*HostAdapter)(nil)

// ErrNotWASM is returned by the stub adapter's Invoke.
var ErrNotWASM = errors.New("wasm host adapter not available in native build")

// HostAdapter stub for native builds. It exposes no functions, so detection never
// selects it.
type HostAdapter struct{}

// NewHostAdapter creates a new HostAdapter stub.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{}
}

// Has always reports false.
func (a *HostAdapter) Has(string) bool { return false }

// Invoke always fails with ErrNotWASM.
func (a *HostAdapter) Invoke(context.Context, string, []byte) ([]byte, error) {
	return nil, ErrNotWASM
}
