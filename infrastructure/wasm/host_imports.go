//go:build wasip1

// Package wasm provides the guest side of the native host: a ports.NativeHost
// backed by the functions of the hostcap_host module.
package wasm

// Reports (1 or 0) whether the host implements the named function.
//
//go:wasmimport hostcap_host has
func host_has(namePacked uint64) uint32

// Invokes a host function and returns its packed reply.
//
//go:wasmimport hostcap_host invoke
func host_invoke(namePacked, payloadPacked uint64) uint64
