package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackPtrLen(t *testing.T) {
	tests := []struct {
		name   string
		ptr    uint32
		length uint32
		want   uint64
	}{
		{"zero", 0, 0, 0},
		{"small", 1, 1, 0x0000000100000001},
		{"max", 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF},
		{"mixed", 0x12345678, 0x9ABCDEF0, 0x123456789ABCDEF0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed := PackPtrLen(tt.ptr, tt.length)
			assert.Equal(t, tt.want, packed)

			ptr, length := UnpackPtrLen(packed)
			assert.Equal(t, tt.ptr, ptr)
			assert.Equal(t, tt.length, length)
		})
	}
}

func TestPackPtrLen_PanicsOnNullPointerWithLength(t *testing.T) {
	assert.Panics(t, func() { PackPtrLen(0, 10) })
}

func TestUnpackPtrLen_PanicsOnInvalidPacked(t *testing.T) {
	assert.Panics(t, func() { UnpackPtrLen(uint64(10)) })
}

func TestSplitAndValid(t *testing.T) {
	ptr, length := Split(uint64(10))
	assert.Zero(t, ptr)
	assert.Equal(t, uint32(10), length)

	assert.False(t, Valid(uint64(10)))
	assert.True(t, Valid(0))
	assert.True(t, Valid(PackPtrLen(64, 3)))
}
