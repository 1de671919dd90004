package arena

import (
	"runtime"
	"unsafe"
)

// Alloc returns a pointer to a T stored inside the arena with zeroed memory.
// The returned pointer is valid until the arena is reset or released.
//
// T must not contain pointers: the arena's blocks are plain byte buffers, so
// pointers stored through the returned *T are invisible to the garbage
// collector.
func Alloc[T any](a *Arena) *T {
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)))
	if len(b) > 0 {
		clear(b)
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// AllocUninitialized returns a *T located in the arena without zeroing memory.
// Faster than Alloc, but the contents are whatever the block held before.
func AllocUninitialized[T any](a *Arena) *T {
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)))
	return (*T)(unsafe.Pointer(&b[0]))
}

// AllocSlice allocates a slice of n elements of type T inside the arena.
// The elements are not zeroed. Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)) * n)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// AllocSliceZeroed allocates a slice of n elements of type T with zeroed
// memory. Returns nil if n <= 0.
func AllocSliceZeroed[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)) * n)
	if len(b) > 0 {
		clear(b)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// PtrAndKeepAlive returns t and calls runtime.KeepAlive on the arena,
// preventing it from being collected while t is still in use in unsafe code.
func PtrAndKeepAlive[T any](a *Arena, t *T) *T {
	runtime.KeepAlive(a)
	return t
}
