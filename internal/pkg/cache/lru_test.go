package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	store := New[string](3)

	store.Set("a", "1")

	value, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := New[int](3)

	store.Set("a", 1)
	store.Set("b", 2)
	store.Set("c", 3)

	// Inserting a fourth key evicts "a", the least recently touched.
	store.Set("d", 4)

	assert.False(t, store.Has("a"))
	assert.True(t, store.Has("b"))
	assert.True(t, store.Has("c"))
	assert.True(t, store.Has("d"))
	assert.Equal(t, 3, store.Size())
}

func TestStore_GetProtectsFromEviction(t *testing.T) {
	store := New[int](3)

	store.Set("a", 1)
	store.Set("b", 2)
	store.Set("c", 3)

	// Touching "a" promotes it; "b" becomes the eviction candidate.
	_, ok := store.Get("a")
	require.True(t, ok)

	store.Set("d", 4)

	assert.True(t, store.Has("a"))
	assert.False(t, store.Has("b"))
}

func TestStore_ReSetPromotesAndReplaces(t *testing.T) {
	store := New[int](2)

	store.Set("a", 1)
	store.Set("b", 2)
	store.Set("a", 10)

	// "a" was just re-set, so "b" is evicted next.
	store.Set("c", 3)

	value, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, value)
	assert.False(t, store.Has("b"))
}

func TestStore_KeysOrderedLRUToMRU(t *testing.T) {
	store := New[int](3)

	store.Set("a", 1)
	store.Set("b", 2)
	store.Set("c", 3)
	store.Get("a")

	assert.Equal(t, []string{"b", "c", "a"}, store.Keys())
	assert.Equal(t, []int{2, 3, 1}, store.Values())
}

func TestStore_Delete(t *testing.T) {
	store := New[int](2)

	store.Set("a", 1)

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))
	assert.Equal(t, 0, store.Size())
}

func TestStore_Stats(t *testing.T) {
	store := New[int](4)

	// No accesses yet: hit rate is defined as 0, not NaN.
	stats := store.GetStats()
	assert.Zero(t, stats.HitRate)
	assert.Equal(t, 4, stats.Capacity)

	store.Set("a", 1)
	store.Set("b", 2)

	store.Get("a")       // hit
	store.Get("a")       // hit
	store.Get("missing") // miss
	store.Get("nope")    // miss

	stats = store.GetStats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(2), stats.HitCount)
	assert.Equal(t, int64(2), stats.MissCount)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
	assert.InDelta(t, 50.0, stats.Utilization, 0.001)
}

func TestStore_ClearResetsCounters(t *testing.T) {
	store := New[int](2)

	store.Set("a", 1)
	store.Get("a")
	store.Get("missing")

	store.Clear()

	stats := store.GetStats()
	assert.Equal(t, 0, stats.Size)
	assert.Zero(t, stats.HitCount)
	assert.Zero(t, stats.MissCount)
	assert.Zero(t, stats.HitRate)
}

func TestStore_HasAndPeekDoNotTouchState(t *testing.T) {
	store := New[int](2)

	store.Set("a", 1)
	store.Set("b", 2)

	store.Has("a")
	value, ok := store.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)
	_, ok = store.Peek("missing")
	assert.False(t, ok)

	// Neither call counted as an access or promoted "a".
	stats := store.GetStats()
	assert.Zero(t, stats.HitCount)
	assert.Zero(t, stats.MissCount)
	assert.Equal(t, []string{"a", "b"}, store.Keys())
}

func TestEntry_Expired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	entry := NewEntry("report", now)
	ttl := 5 * time.Minute

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"fresh", now.Add(1 * time.Minute), false},
		{"exactly at ttl - still fresh", now.Add(ttl), false},
		{"one instant past ttl", now.Add(ttl + time.Nanosecond), true},
		{"long expired", now.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.Expired(tt.at, ttl))
		})
	}
}
