package cache

import "time"

// Entry wraps a cached payload with its creation timestamp. Entries
// never self-expire; freshness is a policy the caller checks at read
// time, so the same store can be queried under different TTLs.
type Entry[T any] struct {
	Value     T
	Timestamp time.Time
}

// NewEntry stamps a payload with its creation time.
func NewEntry[T any](value T, now time.Time) Entry[T] {
	return Entry[T]{Value: value, Timestamp: now}
}

// Expired reports whether the entry is older than ttl at the given
// instant. An entry aged exactly ttl is still fresh.
func (e Entry[T]) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) > ttl
}
