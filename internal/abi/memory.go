//go:build wasip1

package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// DefaultMaxTotalAllocations bounds the guest memory pinned for host exchanges.
const DefaultMaxTotalAllocations = 100 * 1024 * 1024

// The memory manager keeps every buffer handed to the host reachable, so the Go GC
// cannot reclaim it until it is explicitly freed.
var memoryManager = struct {
	sync.Mutex
	ptrs           map[uint32][]byte
	totalAllocated int
	limit          int
}{
	ptrs:  make(map[uint32][]byte),
	limit: DefaultMaxTotalAllocations,
}

// Option configures the memory manager.
type Option func() error

// WithMaxTotalAllocations sets the allocation limit in bytes.
func WithMaxTotalAllocations(limit int) Option {
	return func() error {
		if limit <= 0 {
			return fmt.Errorf("abi: allocation limit must be positive, got %d", limit)
		}
		memoryManager.limit = limit
		return nil
	}
}

// Configure applies opts to the memory manager.
func Configure(opts ...Option) error {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	for _, opt := range opts {
		if err := opt(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the number of pinned buffers and their total size.
func Stats() (buffers, bytes int) {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	return len(memoryManager.ptrs), memoryManager.totalAllocated
}

// allocate pins a new buffer and returns its address. The host calls it to place
// replies in guest memory.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	memoryManager.Lock()
	defer memoryManager.Unlock()

	if memoryManager.totalAllocated+int(size) > memoryManager.limit {
		panic(fmt.Sprintf("abi: memory allocation limit exceeded (requested: %d bytes, current: %d bytes, limit: %d bytes)",
			size, memoryManager.totalAllocated, memoryManager.limit))
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	memoryManager.ptrs[ptr] = buf
	memoryManager.totalAllocated += int(size)
	return ptr
}

// deallocate unpins a buffer. Unknown pointers are ignored; accounting uses the
// pinned length, not size.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, size uint32) {
	memoryManager.Lock()
	defer memoryManager.Unlock()

	buf, ok := memoryManager.ptrs[ptr]
	if !ok {
		return
	}
	delete(memoryManager.ptrs, ptr)
	memoryManager.totalAllocated -= len(buf)
	if memoryManager.totalAllocated < 0 {
		memoryManager.totalAllocated = 0
	}
}

// FreeAllTracked unpins every buffer.
func FreeAllTracked() {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	clear(memoryManager.ptrs)
	memoryManager.totalAllocated = 0
}

// PtrFromBytes copies data into a pinned buffer and returns it packed. Empty data
// packs to 0.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data)) //nolint:gosec // G115: bounded by the allocation limit
	ptr := allocate(size)
	//nolint:gosec // G103: guest linear memory access
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), len(data)), data)
	return PackPtrLen(ptr, size)
}

// BytesFromPtr returns a copy of the buffer packed refers to, or nil for 0.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	//nolint:gosec // G103: guest linear memory access
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length)
	return append([]byte(nil), src...)
}

// DeallocatePacked unpins the buffer packed refers to. Request buffers are freed
// after the host call returns, reply buffers once they have been copied out.
func DeallocatePacked(packed uint64) {
	ptr, length := UnpackPtrLen(packed)
	if ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}
