package alloc

import (
	"fmt"
	"runtime"
	"slices"
	"unsafe"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Leak describes one allocation that went through a Tracker and has not been
// freed yet.
type Leak struct {
	Addr uintptr // base address of the buffer
	Size int     // requested size in bytes
	File string  // source file of the allocating call
	Line int     // source line of the allocating call
}

type record struct {
	size int
	file string
	line int
	seq  uint64
}

// Tracker is an Allocator that wraps an upstream allocator and keeps a registry
// of every buffer it has handed out and not yet seen freed. Reallocate retires
// the record for the old buffer and inserts a fresh one for the result, even
// when the upstream returns the same buffer, so the recorded call site always
// names the most recent (re)allocation.
//
// Freeing a buffer the tracker never saw is tolerated: the registry is left
// alone and the call is forwarded upstream. A Tracker is not goroutine-safe.
type Tracker struct {
	upstream Allocator
	id       uuid.UUID
	log      zerolog.Logger
	records  map[uintptr]record
	seq      uint64
	live     int
	metrics  *trackerMetrics
}

// TrackerOption configures a Tracker at construction time.
type TrackerOption func(*Tracker)

// WithLogger sets the logger used by ReportLeaks. The default logger is
// disabled, so an unconfigured tracker stays silent.
func WithLogger(log zerolog.Logger) TrackerOption {
	return func(t *Tracker) { t.log = log }
}

// NewTracker returns a Tracker wrapping upstream. A nil upstream selects
// Default.
func NewTracker(upstream Allocator, opts ...TrackerOption) *Tracker {
	if upstream == nil {
		upstream = Default
	}
	t := &Tracker{
		upstream: upstream,
		id:       uuid.New(),
		log:      zerolog.Nop(),
		records:  make(map[uintptr]record),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the tracker's identity, included in every report event.
func (t *Tracker) ID() uuid.UUID { return t.id }

func (t *Tracker) Allocate(size int) []byte {
	b := t.upstream.Allocate(size)
	if b == nil {
		return nil
	}
	file, line := callSite(1)
	t.insert(b, size, file, line)
	return b
}

func (t *Tracker) Reallocate(size int, b []byte) []byte {
	nb := t.upstream.Reallocate(size, b)
	if nb == nil {
		return nil
	}
	if addr := bufAddr(b); addr != 0 {
		t.retire(addr)
	}
	file, line := callSite(1)
	t.insert(nb, size, file, line)
	return nb
}

func (t *Tracker) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	t.retire(bufAddr(b))
	t.upstream.Free(b)
}

var _ Allocator = (*Tracker)(nil)

// Count returns the number of outstanding allocations.
func (t *Tracker) Count() int { return len(t.records) }

// Bytes returns the total requested size of outstanding allocations.
func (t *Tracker) Bytes() int { return t.live }

// Leaks returns a snapshot of the outstanding allocations in allocation order.
func (t *Tracker) Leaks() []Leak {
	type seqLeak struct {
		leak Leak
		seq  uint64
	}
	tmp := make([]seqLeak, 0, len(t.records))
	for addr, r := range t.records {
		tmp = append(tmp, seqLeak{
			leak: Leak{Addr: addr, Size: r.size, File: r.file, Line: r.line},
			seq:  r.seq,
		})
	}
	slices.SortFunc(tmp, func(a, b seqLeak) int {
		return int(a.seq) - int(b.seq)
	})
	leaks := make([]Leak, len(tmp))
	for i, s := range tmp {
		leaks[i] = s.leak
	}
	return leaks
}

// ReportLeaks logs one event per outstanding allocation and returns how many
// there were. With an empty registry it logs that no leaks were detected.
// Reporting never mutates the registry.
func (t *Tracker) ReportLeaks() int {
	leaks := t.Leaks()
	if len(leaks) == 0 {
		t.log.Info().
			Str("tracker", t.id.String()).
			Msg("no memory leaks detected")
		return 0
	}
	for _, l := range leaks {
		t.log.Warn().
			Str("tracker", t.id.String()).
			Str("addr", fmt.Sprintf("0x%x", l.Addr)).
			Int("size", l.Size).
			Str("file", l.File).
			Int("line", l.Line).
			Msg("leaked allocation")
	}
	return len(leaks)
}

func (t *Tracker) insert(b []byte, size int, file string, line int) {
	t.seq++
	t.records[bufAddr(b)] = record{size: size, file: file, line: line, seq: t.seq}
	t.live += size
	if t.metrics != nil {
		t.metrics.bytesAllocated.Add(float64(size))
		t.metrics.active.Inc()
	}
}

func (t *Tracker) retire(addr uintptr) {
	r, ok := t.records[addr]
	if !ok {
		return
	}
	delete(t.records, addr)
	t.live -= r.size
	if t.metrics != nil {
		t.metrics.bytesFreed.Add(float64(r.size))
		t.metrics.active.Dec()
	}
}

func bufAddr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func callSite(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", 0
	}
	return file, line
}
