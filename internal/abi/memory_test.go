//go:build wasip1

package abi

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDeallocate(t *testing.T) {
	FreeAllTracked()

	ptr := allocate(16)
	require.NotZero(t, ptr)
	n, size := Stats()
	assert.Equal(t, 1, n)
	assert.Equal(t, 16, size)

	deallocate(ptr, 999)
	n, size = Stats()
	assert.Zero(t, n)
	assert.Zero(t, size)

	deallocate(ptr, 16)
	_, size = Stats()
	assert.Zero(t, size)
}

func TestAllocate_ZeroSize(t *testing.T) {
	assert.Zero(t, allocate(0))
}

func TestPtrFromBytes_RoundTrip(t *testing.T) {
	FreeAllTracked()

	packed := PtrFromBytes([]byte(`{"result":true}`))
	assert.Equal(t, []byte(`{"result":true}`), BytesFromPtr(packed))

	DeallocatePacked(packed)
	n, _ := Stats()
	assert.Zero(t, n)
}

func TestPtrFromBytes_Empty(t *testing.T) {
	assert.Zero(t, PtrFromBytes(nil))
	assert.Nil(t, BytesFromPtr(0))
	DeallocatePacked(0)
}

func TestConcurrency(t *testing.T) {
	FreeAllTracked()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			DeallocatePacked(PtrFromBytes([]byte("payload")))
		}()
	}
	wg.Wait()

	n, size := Stats()
	assert.Zero(t, n)
	assert.Zero(t, size)
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { _ = Configure(WithMaxTotalAllocations(DefaultMaxTotalAllocations)) })
	FreeAllTracked()

	require.NoError(t, Configure(WithMaxTotalAllocations(8)))
	assert.Panics(t, func() { allocate(9) })

	assert.Error(t, Configure(WithMaxTotalAllocations(0)))
}
