package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoAllocatorAllocate(t *testing.T) {
	a := NewGoAllocator()

	b := a.Allocate(64)
	require.Len(t, b, 64)
	for i, v := range b {
		require.Zerof(t, v, "byte %d not zeroed", i)
	}

	assert.Nil(t, a.Allocate(0))
	assert.Nil(t, a.Allocate(-1))
}

func TestGoAllocatorReallocate(t *testing.T) {
	a := NewGoAllocator()

	b := a.Allocate(4)
	copy(b, []byte{1, 2, 3, 4})

	// Same size returns the same buffer.
	same := a.Reallocate(4, b)
	assert.Same(t, &b[0], &same[0])

	// Growth preserves the prefix.
	grown := a.Reallocate(8, b)
	require.Len(t, grown, 8)
	assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])

	// Shrink preserves what fits.
	shrunk := a.Reallocate(2, b)
	require.Len(t, shrunk, 2)
	assert.Equal(t, []byte{1, 2}, shrunk)

	assert.Nil(t, a.Reallocate(0, b))
}

func TestDefaultIsUsable(t *testing.T) {
	b := Default.Allocate(16)
	require.Len(t, b, 16)
	Default.Free(b)
}
