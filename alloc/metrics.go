package alloc

import "github.com/prometheus/client_golang/prometheus"

type trackerMetrics struct {
	bytesAllocated prometheus.Counter
	bytesFreed     prometheus.Counter
	active         prometheus.Gauge
}

// WithMetrics registers per-tracker prometheus metrics with reg and keeps them
// updated on every allocate/reallocate/free. Metrics are labeled with the
// tracker id, so several trackers can share one registry.
func WithMetrics(reg prometheus.Registerer) TrackerOption {
	return func(t *Tracker) {
		labels := prometheus.Labels{"tracker": t.id.String()}
		m := &trackerMetrics{
			bytesAllocated: prometheus.NewCounter(prometheus.CounterOpts{
				Name:        "nexus_alloc_bytes_allocated_total",
				Help:        "Total bytes handed out through the tracker.",
				ConstLabels: labels,
			}),
			bytesFreed: prometheus.NewCounter(prometheus.CounterOpts{
				Name:        "nexus_alloc_bytes_freed_total",
				Help:        "Total bytes returned through the tracker.",
				ConstLabels: labels,
			}),
			active: prometheus.NewGauge(prometheus.GaugeOpts{
				Name:        "nexus_alloc_allocations_active",
				Help:        "Allocations handed out and not yet freed.",
				ConstLabels: labels,
			}),
		}
		reg.MustRegister(m.bytesAllocated, m.bytesFreed, m.active)
		t.metrics = m
	}
}
