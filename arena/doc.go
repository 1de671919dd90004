// Package arena implements a chunked bump allocator (memory arena) for Go.
//
// # Overview
//
// An arena allocator grabs memory in large blocks and hands out portions of
// those blocks on demand. This is particularly useful for:
//
//   - Phase-scoped allocations that are dropped together
//   - Temporary object allocation with batch cleanup
//   - Reducing garbage collection pressure
//   - Predictable allocation patterns in hot paths
//
// # Basic Usage
//
//	a := arena.NewArena(0) // Use the default block size
//	defer a.Release()      // Return block memory when done
//
//	// Allocate raw bytes
//	buf := a.AllocBytes(1024)
//
//	// Allocate typed values
//	ptr := arena.Alloc[MyStruct](a)
//	slice := arena.AllocSlice[int](a, 100)
//
//	// Reset for reuse (keeps block memory)
//	a.Reset()
//
// # Allocation Facade
//
// Block buffers come from an alloc.Allocator. The default is the plain
// heap-backed allocator; build the arena over an alloc.Tracker to have every
// block show up in leak reports:
//
//	tracker := alloc.NewTracker(nil)
//	a := arena.NewArenaIn(tracker, 0)
//	...
//	a.Release()
//	tracker.ReportLeaks() // arena blocks are drained by Release
//
// # Thread Safety
//
// The basic Arena type is not thread-safe. For concurrent access, use
// SafeArena:
//
//	sa := arena.NewSafeArena(0)
//	defer sa.Release()
//
//	buf := sa.AllocBytes(1024)
//	ptr := arena.SafeAlloc[MyStruct](sa)
//
// # Memory Layout
//
// The arena allocates memory in blocks (default 4 KiB). When a block fills up,
// a new block is appended; a request larger than the block size gets a block
// of its own, so oversized allocations always land in one contiguous buffer.
// Sizes are rounded up to an 8-byte boundary, so every returned pointer is
// 8-byte aligned within its block. Memory already handed out is never moved.
//
// # Performance Characteristics
//
//   - Allocation: O(1) amortized
//   - Reset: O(number of blocks) - typically very fast
//   - Release: O(number of blocks)
//   - Memory overhead: minimal (just block metadata)
//
// # Important Notes
//
//   - Allocated memory is only valid until Reset or Release
//   - No individual deallocation - use Reset() or Release() for bulk cleanup
//   - Memory is not zeroed unless using Alloc() or AllocSliceZeroed()
//   - Do not store pointers in arena memory; blocks are plain byte buffers
//     and the garbage collector does not scan them
//
// # Metrics and Monitoring
//
// The arena provides metrics for monitoring memory usage, as a plain snapshot
// or as a prometheus collector:
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(arena.NewCollector("parser", a))
package arena
