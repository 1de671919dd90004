// Package hashmap implements a generic open-chaining hash map with pluggable
// hash and equality functions, head-insertion collision chains, and a
// load-factor-triggered doubling resize.
package hashmap

import "iter"

const (
	// InitialCapacity is the default bucket count at creation.
	InitialCapacity = 16

	// DefaultLoadFactor is the count/capacity threshold that triggers a resize.
	DefaultLoadFactor = 0.75
)

// nilIdx terminates a collision chain and the free list.
const nilIdx = int32(-1)

// entry is one key/value association. Entries live in a single slab slice and
// link to the next entry of their bucket (or free-list successor) by index.
type entry[K comparable, V any] struct {
	key  K
	val  V
	next int32
}

// Map is an open-chaining hash map from K to V. Buckets hold the head index of
// their collision chain; chains are index-linked through the entry slab, with
// removed slots recycled through a free list. Capacity is always a power of
// two and only grows.
//
// A Map is not goroutine-safe.
type Map[K comparable, V any] struct {
	buckets    []int32
	entries    []entry[K, V]
	free       int32
	count      int
	hash       func(K) uint64
	equal      func(K, K) bool
	loadFactor float64
}

// Option configures a Map at construction time.
type Option[K comparable] func(*settings[K])

type settings[K comparable] struct {
	hash       func(K) uint64
	equal      func(K, K) bool
	capacity   int
	loadFactor float64
}

// WithHash installs h as the hash function. The default hashes string keys
// with StringHash and any other comparable key with a seeded maphash.
func WithHash[K comparable](h func(K) uint64) Option[K] {
	return func(s *settings[K]) { s.hash = h }
}

// WithEqual installs eq as the key equality function. The default is ==.
func WithEqual[K comparable](eq func(K, K) bool) Option[K] {
	return func(s *settings[K]) { s.equal = eq }
}

// WithCapacity sets the initial bucket count. Values <= 0 select
// InitialCapacity; anything else is rounded up to a power of two.
func WithCapacity[K comparable](n int) Option[K] {
	return func(s *settings[K]) { s.capacity = n }
}

// WithLoadFactor sets the resize threshold. Values outside (0, 1] select
// DefaultLoadFactor.
func WithLoadFactor[K comparable](f float64) Option[K] {
	return func(s *settings[K]) { s.loadFactor = f }
}

// New creates an empty Map.
func New[K comparable, V any](opts ...Option[K]) *Map[K, V] {
	s := settings[K]{capacity: InitialCapacity, loadFactor: DefaultLoadFactor}
	for _, opt := range opts {
		opt(&s)
	}
	if s.hash == nil {
		s.hash = defaultHash[K]()
	}
	if s.equal == nil {
		s.equal = func(a, b K) bool { return a == b }
	}
	if s.capacity <= 0 {
		s.capacity = InitialCapacity
	}
	if s.loadFactor <= 0 || s.loadFactor > 1 {
		s.loadFactor = DefaultLoadFactor
	}

	m := &Map[K, V]{
		buckets:    make([]int32, ceilPow2(s.capacity)),
		free:       nilIdx,
		hash:       s.hash,
		equal:      s.equal,
		loadFactor: s.loadFactor,
	}
	for i := range m.buckets {
		m.buckets[i] = nilIdx
	}
	return m
}

// Put associates value with key. An existing key has its value replaced in
// place; a new key gets a fresh entry at the head of its bucket's chain.
// Returns true when a new entry was created.
//
// Crossing the load factor threshold triggers a synchronous doubling resize
// before Put returns. Resize relinks existing entries; it never copies keys or
// values and never fails.
func (m *Map[K, V]) Put(key K, value V) bool {
	b := m.bucketOf(key)
	for i := m.buckets[b]; i != nilIdx; i = m.entries[i].next {
		if m.equal(m.entries[i].key, key) {
			m.entries[i].val = value
			return false
		}
	}

	slot := m.newSlot()
	e := &m.entries[slot]
	e.key = key
	e.val = value
	e.next = m.buckets[b]
	m.buckets[b] = slot
	m.count++

	if float64(m.count)/float64(len(m.buckets)) > m.loadFactor {
		m.grow()
	}
	return true
}

// Get returns the value associated with key and whether the key was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	for i := m.buckets[m.bucketOf(key)]; i != nilIdx; i = m.entries[i].next {
		if m.equal(m.entries[i].key, key) {
			return m.entries[i].val, true
		}
	}
	var zero V
	return zero, false
}

// Remove deletes key's entry. Returns false when the key was not present.
func (m *Map[K, V]) Remove(key K) bool {
	b := m.bucketOf(key)
	prev := nilIdx
	for i := m.buckets[b]; i != nilIdx; i = m.entries[i].next {
		if m.equal(m.entries[i].key, key) {
			if prev == nilIdx {
				m.buckets[b] = m.entries[i].next
			} else {
				m.entries[prev].next = m.entries[i].next
			}
			// Clear the slot so stale keys and values do not pin memory,
			// then push it onto the free list.
			m.entries[i] = entry[K, V]{next: m.free}
			m.free = i
			m.count--
			return true
		}
		prev = i
	}
	return false
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int { return m.count }

// Cap returns the current bucket count.
func (m *Map[K, V]) Cap() int { return len(m.buckets) }

// Clear removes every entry, keeping the bucket array at its current size.
func (m *Map[K, V]) Clear() {
	for i := range m.buckets {
		m.buckets[i] = nilIdx
	}
	clear(m.entries)
	m.entries = m.entries[:0]
	m.free = nilIdx
	m.count = 0
}

// All iterates over all key/value pairs in bucket order. The map must not be
// mutated during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, head := range m.buckets {
			for i := head; i != nilIdx; i = m.entries[i].next {
				if !yield(m.entries[i].key, m.entries[i].val) {
					return
				}
			}
		}
	}
}

// bucketOf maps key to its bucket index. The bucket count is a power of two,
// so the mask is equivalent to the modulo.
func (m *Map[K, V]) bucketOf(key K) int32 {
	return int32(m.hash(key) & uint64(len(m.buckets)-1))
}

// newSlot pops a recycled slot off the free list or appends one to the slab.
func (m *Map[K, V]) newSlot() int32 {
	if m.free != nilIdx {
		slot := m.free
		m.free = m.entries[slot].next
		return slot
	}
	m.entries = append(m.entries, entry[K, V]{})
	return int32(len(m.entries) - 1)
}

// grow doubles the bucket array and relinks every live entry into it.
// Entry slots keep their positions in the slab; only chain links change.
func (m *Map[K, V]) grow() {
	old := m.buckets
	m.buckets = make([]int32, 2*len(old))
	for i := range m.buckets {
		m.buckets[i] = nilIdx
	}
	for _, head := range old {
		for i := head; i != nilIdx; {
			next := m.entries[i].next
			b := m.bucketOf(m.entries[i].key)
			m.entries[i].next = m.buckets[b]
			m.buckets[b] = i
			i = next
		}
	}
}

// ceilPow2 rounds n up to the next power of two.
func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
