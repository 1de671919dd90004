// Package alloc provides the raw allocation facade the rest of the module
// allocates through: a small Allocator interface, a pass-through implementation
// backed by the Go heap, and a Tracker that wraps any Allocator with a registry
// of live allocations for leak reporting.
package alloc

// Allocator hands out byte buffers. Implementations decide where the memory
// comes from and what Free means; callers must not use a buffer after passing
// it to Free or Reallocate.
type Allocator interface {
	// Allocate returns a zeroed buffer of size bytes, or nil when size <= 0.
	Allocate(size int) []byte

	// Reallocate resizes b to size bytes, preserving its contents up to the
	// smaller of the two sizes. The returned buffer may or may not share
	// storage with b.
	Reallocate(size int, b []byte) []byte

	// Free releases b back to the allocator. Passing nil is a no-op.
	Free(b []byte)
}

// GoAllocator allocates from the Go heap. Free is a no-op: buffers are
// reclaimed by the garbage collector once unreachable.
type GoAllocator struct{}

// NewGoAllocator returns a heap-backed allocator.
func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

func (*GoAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	return make([]byte, size)
}

func (a *GoAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	if size <= 0 {
		return nil
	}
	nb := a.Allocate(size)
	copy(nb, b)
	return nb
}

func (*GoAllocator) Free([]byte) {}

var _ Allocator = (*GoAllocator)(nil)

// Default is the allocator used by consumers that are given a nil Allocator.
var Default Allocator = NewGoAllocator()
