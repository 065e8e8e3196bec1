// Package abi implements the calling convention between a WASM guest and the
// hostcap_host module: byte buffers cross the boundary as one i64 holding a
// 32-bit pointer into guest memory (high half) and a 32-bit length (low half).
//
// Packing is available on every platform so the host side can share it; guest
// memory management is only built for wasip1.
package abi

import "fmt"

// PackPtrLen packs a pointer and length into a single uint64.
// Panics if ptr is 0 and length > 0.
func PackPtrLen(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: invalid pack - null pointer (0x0) with non-zero length (%d)", length))
	}
	return (uint64(ptr) << 32) | uint64(length)
}

// Split returns the pointer and length halves of packed without checking them.
func Split(packed uint64) (ptr, length uint32) {
	return uint32(packed >> 32), uint32(packed) //nolint:gosec // G115: both halves are 32-bit by construction
}

// UnpackPtrLen is Split that panics on a null pointer with a non-zero length.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr, length = Split(packed)
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: invalid unpack - null pointer (0x0) with non-zero length (%d)", length))
	}
	return ptr, length
}

// Valid reports whether packed can be unpacked.
func Valid(packed uint64) bool {
	ptr, length := Split(packed)
	return ptr != 0 || length == 0
}
