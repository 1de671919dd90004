package arena

import "github.com/prometheus/client_golang/prometheus"

// SizeInUse returns the total number of bytes currently allocated in the
// arena, including internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	sum := 0
	for i := range a.blocks {
		sum += int(a.blocks[i].offset)
	}
	return sum
}

// NumBlocks returns the number of blocks currently owned by the arena.
func (a *Arena) NumBlocks() int {
	return len(a.blocks)
}

// Capacity returns the total capacity (in bytes) of all blocks in the arena.
func (a *Arena) Capacity() int {
	sum := 0
	for i := range a.blocks {
		sum += len(a.blocks[i].buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// BlockSize returns the default block size used by this arena.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// Metrics is a snapshot of arena statistics.
type Metrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumBlocks   int     // Number of blocks
	BlockSize   int     // Default block size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumBlocks:   a.NumBlocks(),
		BlockSize:   a.blockSize,
		Utilization: a.Utilization(),
	}
}

// MetricsSource is anything that can produce an arena metrics snapshot.
// Both Arena and SafeArena satisfy it.
type MetricsSource interface {
	Metrics() Metrics
}

// Collector exposes a named arena's statistics as prometheus metrics.
// Register it with a prometheus.Registerer; each Collect scrapes a fresh
// snapshot from the source.
type Collector struct {
	src       MetricsSource
	sizeInUse *prometheus.Desc
	capacity  *prometheus.Desc
	numBlocks *prometheus.Desc
}

// NewCollector returns a Collector for src. The arena label on every metric is
// set to name.
func NewCollector(name string, src MetricsSource) *Collector {
	labels := prometheus.Labels{"arena": name}
	return &Collector{
		src: src,
		sizeInUse: prometheus.NewDesc(
			"nexus_arena_bytes_in_use",
			"Bytes currently allocated in the arena.",
			nil, labels,
		),
		capacity: prometheus.NewDesc(
			"nexus_arena_capacity_bytes",
			"Total capacity of all arena blocks.",
			nil, labels,
		),
		numBlocks: prometheus.NewDesc(
			"nexus_arena_blocks",
			"Number of blocks owned by the arena.",
			nil, labels,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeInUse
	ch <- c.capacity
	ch <- c.numBlocks
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	ch <- prometheus.MustNewConstMetric(c.sizeInUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.numBlocks, prometheus.GaugeValue, float64(m.NumBlocks))
}

var _ prometheus.Collector = (*Collector)(nil)

// Thread-safe metrics for SafeArena

// SizeInUse thread-safely returns the total number of bytes currently allocated.
func (s *SafeArena) SizeInUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.SizeInUse()
}

// NumBlocks thread-safely returns the number of blocks currently owned.
func (s *SafeArena) NumBlocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.NumBlocks()
}

// Capacity thread-safely returns the total capacity of all blocks.
func (s *SafeArena) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Utilization thread-safely returns the ratio of bytes in use to total capacity.
func (s *SafeArena) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Utilization()
}

// BlockSize thread-safely returns the default block size.
func (s *SafeArena) BlockSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.BlockSize()
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}
