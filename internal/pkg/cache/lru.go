package cache

import (
	"container/list"
	"sync"
)

// Store is a bounded in-memory key-value store with LRU eviction
// and hit/miss accounting. Capacity is fixed at construction.
type Store[T any] struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	order     *list.List // front = most recently used
	hitCount  int64
	missCount int64
}

type storeItem[T any] struct {
	key   string
	value T
}

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	Size        int     `json:"size"`
	Capacity    int     `json:"capacity"`
	Utilization float64 `json:"utilization"`
	HitCount    int64   `json:"hit_count"`
	MissCount   int64   `json:"miss_count"`
	HitRate     float64 `json:"hit_rate"`
}

// New creates a new store with the given capacity.
func New[T any](capacity int) *Store[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Store[T]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a value and promotes the key to most-recently-used.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		s.missCount++
		var zero T
		return zero, false
	}

	s.hitCount++
	s.order.MoveToFront(elem)
	return elem.Value.(*storeItem[T]).value, true
}

// Set stores a value. An existing key is replaced and promoted; a new
// key at capacity evicts the least-recently-used entry first.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		elem.Value.(*storeItem[T]).value = value
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}

	s.items[key] = s.order.PushFront(&storeItem[T]{key: key, value: value})
}

// Peek returns a value without promoting the key or touching the
// hit/miss counters. Used by introspection and pruning paths.
func (s *Store[T]) Peek(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	return elem.Value.(*storeItem[T]).value, true
}

// Has reports whether a key is present without promoting it or
// touching the hit/miss counters.
func (s *Store[T]) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[key]
	return ok
}

// Delete removes a key, reporting whether it was present.
func (s *Store[T]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeElement(elem)
	return true
}

// Clear empties the store and resets the hit/miss counters.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*list.Element)
	s.order.Init()
	s.hitCount = 0
	s.missCount = 0
}

// Keys returns a snapshot of keys ordered least- to most-recently-used.
func (s *Store[T]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, s.order.Len())
	for elem := s.order.Back(); elem != nil; elem = elem.Prev() {
		keys = append(keys, elem.Value.(*storeItem[T]).key)
	}
	return keys
}

// Values returns a snapshot of values ordered least- to most-recently-used.
func (s *Store[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]T, 0, s.order.Len())
	for elem := s.order.Back(); elem != nil; elem = elem.Prev() {
		values = append(values, elem.Value.(*storeItem[T]).value)
	}
	return values
}

// Size returns the current number of entries.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// GetStats returns a snapshot of the store counters. HitRate is 0 when
// no accesses have occurred yet.
func (s *Store[T]) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Size:        len(s.items),
		Capacity:    s.capacity,
		Utilization: float64(len(s.items)) / float64(s.capacity) * 100,
		HitCount:    s.hitCount,
		MissCount:   s.missCount,
	}
	if total := s.hitCount + s.missCount; total > 0 {
		stats.HitRate = float64(s.hitCount) / float64(total) * 100
	}
	return stats
}

// caller must hold s.mu
func (s *Store[T]) removeElement(elem *list.Element) {
	delete(s.items, elem.Value.(*storeItem[T]).key)
	s.order.Remove(elem)
}
