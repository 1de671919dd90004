// Package arena implements a chunked bump allocator (memory arena).
// Typical usage: create one arena per processing phase, allocate many
// temporary objects from it, then Reset() at the end of the phase for
// cheap bulk cleanup.
package arena

import (
	"unsafe"

	"nexus/alloc"
)

// DefaultBlockSize is the size of newly appended arena blocks (4 KiB).
const DefaultBlockSize = 4096

// alignment is the boundary every allocation size is rounded up to.
const alignment = 8

// block is a single memory block within an arena.
type block struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator. Not goroutine-safe by default.
// Use SafeArena for concurrent access.
//
// Every block buffer is obtained from the arena's alloc.Allocator, so an
// arena built over a Tracker is covered by leak reporting transparently.
type Arena struct {
	blocks    []block
	blockSize int
	current   *block
	mem       alloc.Allocator
}

// NewArena creates a new Arena backed by alloc.Default.
// If blockSize <= 0, DefaultBlockSize is used.
func NewArena(blockSize int) *Arena {
	return NewArenaIn(nil, blockSize)
}

// NewArenaIn creates a new Arena that obtains block memory from a.
// A nil allocator selects alloc.Default.
func NewArenaIn(a alloc.Allocator, blockSize int) *Arena {
	if a == nil {
		a = alloc.Default
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	ar := &Arena{blockSize: blockSize, mem: a}
	ar.grow(blockSize)
	return ar
}

// AllocBytes returns a []byte slice pointing into the arena's current block.
// The region it denotes stays valid until Reset or Release; it is never moved
// by later allocations. Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}

	rounded := roundUp(uintptr(n))

	// Fast path: bump the cached current block.
	c := a.current
	if c != nil && c.offset+rounded <= uintptr(len(c.buf)) {
		start := int(c.offset)
		c.offset += rounded
		return unsafe.Slice((*byte)(unsafe.Pointer(&c.buf[start])), n)
	}

	return a.allocBytesSlow(n, rounded)
}

// allocBytesSlow appends a block large enough for n and allocates from it.
func (a *Arena) allocBytesSlow(n int, rounded uintptr) []byte {
	a.panicIfReleased()

	a.grow(int(rounded))
	c := a.current
	start := int(c.offset)
	c.offset += rounded
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.buf[start])), n)
}

// EnsureCapacity ensures the current block has at least n free bytes.
// If not, it grows the arena with a new block.
func (a *Arena) EnsureCapacity(n int) {
	a.panicIfReleased()
	c := a.current
	if c == nil || roundUp(uintptr(n))+c.offset > uintptr(len(c.buf)) {
		a.grow(n)
	}
}

// Reset rewinds every block's offset to zero and makes the first block current
// again, keeping all block memory for reuse. Previously returned slices must
// not be used after Reset.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for i := range a.blocks {
		a.blocks[i].offset = 0
	}
	a.current = &a.blocks[0]
}

// Release returns every block buffer to the arena's allocator and makes the
// arena unusable. Any subsequent operation panics.
func (a *Arena) Release() {
	for i := range a.blocks {
		a.mem.Free(a.blocks[i].buf)
		a.blocks[i].buf = nil
	}
	a.blocks = nil
	a.current = nil
}

// grow appends a new block of at least min bytes and makes it current.
func (a *Arena) grow(min int) {
	size := a.blockSize
	if min > size {
		size = min
	}
	a.blocks = append(a.blocks, block{buf: a.mem.Allocate(size)})
	a.current = &a.blocks[len(a.blocks)-1]
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.blocks == nil {
		panic("arena: use after Release()")
	}
}

// roundUp rounds n up to the allocation alignment boundary.
func roundUp(n uintptr) uintptr {
	return (n + alignment - 1) &^ (alignment - 1)
}
