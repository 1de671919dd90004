package arena

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestArenaMetrics(t *testing.T) {
	a := NewArena(1024)

	// Test initial state
	if a.SizeInUse() != 0 {
		t.Errorf("Initial SizeInUse = %d, want 0", a.SizeInUse())
	}
	if a.NumBlocks() != 1 {
		t.Errorf("Initial NumBlocks = %d, want 1", a.NumBlocks())
	}
	if a.Capacity() == 0 {
		t.Error("Initial Capacity should be > 0")
	}
	if a.BlockSize() != 1024 {
		t.Errorf("BlockSize = %d, want 1024", a.BlockSize())
	}
	if a.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", a.Utilization())
	}

	// Allocate some data
	a.AllocBytes(100)
	a.AllocBytes(200)

	sizeInUse := a.SizeInUse()
	if sizeInUse == 0 {
		t.Error("SizeInUse should be > 0 after allocations")
	}

	utilization := a.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", utilization)
	}

	// Force block growth
	a.AllocBytes(2000) // Larger than block size
	if a.NumBlocks() != 2 {
		t.Errorf("NumBlocks after growth = %d, want 2", a.NumBlocks())
	}

	capacity := a.Capacity()
	if capacity <= 1024 {
		t.Errorf("Capacity after growth = %d, want > 1024", capacity)
	}

	// Test metrics snapshot
	metrics := a.Metrics()
	if metrics.SizeInUse != a.SizeInUse() {
		t.Errorf("Metrics.SizeInUse = %d, want %d", metrics.SizeInUse, a.SizeInUse())
	}
	if metrics.Capacity != a.Capacity() {
		t.Errorf("Metrics.Capacity = %d, want %d", metrics.Capacity, a.Capacity())
	}
	if metrics.NumBlocks != a.NumBlocks() {
		t.Errorf("Metrics.NumBlocks = %d, want %d", metrics.NumBlocks, a.NumBlocks())
	}
	if metrics.BlockSize != a.BlockSize() {
		t.Errorf("Metrics.BlockSize = %d, want %d", metrics.BlockSize, a.BlockSize())
	}
	if metrics.Utilization != a.Utilization() {
		t.Errorf("Metrics.Utilization = %f, want %f", metrics.Utilization, a.Utilization())
	}
}

func TestArenaMetricsAfterReset(t *testing.T) {
	a := NewArena(1024)

	// Allocate and verify
	a.AllocBytes(500)
	if a.SizeInUse() == 0 {
		t.Error("Expected non-zero SizeInUse before reset")
	}
	if a.Utilization() == 0 {
		t.Error("Expected non-zero Utilization before reset")
	}

	// Reset and verify
	a.Reset()
	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Reset = %d, want 0", a.SizeInUse())
	}
	if a.Utilization() != 0 {
		t.Errorf("Utilization after Reset = %f, want 0", a.Utilization())
	}
	// Blocks should remain
	if a.NumBlocks() == 0 {
		t.Error("NumBlocks should not be 0 after Reset")
	}
	if a.Capacity() == 0 {
		t.Error("Capacity should not be 0 after Reset")
	}
}

func TestArenaMetricsAfterRelease(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(100)

	a.Release()

	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Release = %d, want 0", a.SizeInUse())
	}
	if a.NumBlocks() != 0 {
		t.Errorf("NumBlocks after Release = %d, want 0", a.NumBlocks())
	}
	if a.Capacity() != 0 {
		t.Errorf("Capacity after Release = %d, want 0", a.Capacity())
	}
	if a.Utilization() != 0 {
		t.Errorf("Utilization after Release = %f, want 0", a.Utilization())
	}
}

func TestSafeArenaMetrics(t *testing.T) {
	s := NewSafeArena(2048)

	// Test that SafeArena metrics match underlying Arena
	s.AllocBytes(300)

	if s.SizeInUse() == 0 {
		t.Error("SafeArena SizeInUse should be > 0")
	}
	if s.NumBlocks() == 0 {
		t.Error("SafeArena NumBlocks should be > 0")
	}
	if s.Capacity() == 0 {
		t.Error("SafeArena Capacity should be > 0")
	}
	if s.BlockSize() != 2048 {
		t.Errorf("SafeArena BlockSize = %d, want 2048", s.BlockSize())
	}

	utilization := s.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("SafeArena Utilization = %f, want 0 < x <= 1", utilization)
	}

	// Test metrics snapshot for SafeArena
	metrics := s.Metrics()
	if metrics.BlockSize != 2048 {
		t.Errorf("SafeArena Metrics.BlockSize = %d, want 2048", metrics.BlockSize)
	}
	if metrics.SizeInUse == 0 {
		t.Error("SafeArena Metrics.SizeInUse should be > 0")
	}
}

func TestUtilizationEdgeCases(t *testing.T) {
	// Test with released arena
	a := NewArena(1024)
	a.Release()
	if a.Utilization() != 0 {
		t.Errorf("Released arena Utilization = %f, want 0", a.Utilization())
	}

	// Test with arena that has capacity but no allocations
	a2 := NewArena(1024)
	if a2.Utilization() != 0 {
		t.Errorf("Empty arena Utilization = %f, want 0", a2.Utilization())
	}

	// Test with full utilization
	a3 := NewArena(128)
	a3.AllocBytes(a3.Capacity()) // Allocate all available space
	util := a3.Utilization()
	if util != 1.0 {
		t.Errorf("Full arena Utilization = %f, want 1.0", util)
	}
}

func TestCollector(t *testing.T) {
	a := NewArena(1024)
	a.AllocBytes(104) // already a multiple of the alignment

	c := NewCollector("test", a)
	if n := testutil.CollectAndCount(c); n != 3 {
		t.Errorf("collector metric count = %d, want 3", n)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() != "nexus_arena_bytes_in_use" {
			continue
		}
		found = true
		if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 104 {
			t.Errorf("nexus_arena_bytes_in_use = %f, want 104", got)
		}
	}
	if !found {
		t.Error("nexus_arena_bytes_in_use not gathered")
	}
}

func BenchmarkMetrics(b *testing.B) {
	a := NewArena(1024 * 1024)
	// Pre-allocate some data
	for i := 0; i < 100; i++ {
		a.AllocBytes(1000)
	}

	b.Run("SizeInUse", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.SizeInUse()
		}
	})

	b.Run("NumBlocks", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.NumBlocks()
		}
	})

	b.Run("Capacity", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.Capacity()
		}
	})

	b.Run("Utilization", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.Utilization()
		}
	})

	b.Run("Metrics", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.Metrics()
		}
	})
}

func BenchmarkSafeArenaMetrics(b *testing.B) {
	s := NewSafeArena(1024 * 1024)
	// Pre-allocate some data
	for i := 0; i < 100; i++ {
		s.AllocBytes(1000)
	}

	b.Run("SafeSizeInUse", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			s.SizeInUse()
		}
	})

	b.Run("SafeMetrics", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			s.Metrics()
		}
	})
}
