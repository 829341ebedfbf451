package cmap

import (
	"fmt"
	"hash/maphash"
	"sync"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map.
type Map[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	seed      maphash.Seed
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a sharded map with the default shard count.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithShards[K, V](DefaultShardCount)
}

// NewWithShards creates a sharded map with the given shard count.
// Counts that are not a power of two fall back to the default.
func NewWithShards[K comparable, V any](shardCount int) *Map[K, V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], shardCount),
		shardMask: uint64(shardCount - 1),
		seed:      maphash.MakeSeed(),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	// Fast path for string keys, which is what callers here use.
	if s, ok := any(key).(string); ok {
		return m.shards[maphash.String(m.seed, s)&m.shardMask]
	}
	var h maphash.Hash
	h.SetSeed(m.seed)
	h.WriteString(fmt.Sprintf("%v", key))
	return m.shards[h.Sum64()&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	sh := m.getShard(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	val, ok := sh.items[key]
	return val, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	sh := m.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.items[key] = value
}

// Delete removes a key.
func (m *Map[K, V]) Delete(key K) {
	sh := m.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.items, key)
}

// Has reports whether a key exists.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// GetOrSet returns the existing value for a key, or stores and returns
// value if the key is absent. The second return reports whether the
// key already existed.
func (m *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	sh := m.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if existing, ok := sh.items[key]; ok {
		return existing, true
	}
	sh.items[key] = value
	return value, false
}

// Update atomically replaces the value for a key with the result of fn,
// holding the shard lock across the read-modify-write.
func (m *Map[K, V]) Update(key K, fn func(value V, exists bool) V) V {
	sh := m.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, exists := sh.items[key]
	updated := fn(existing, exists)
	sh.items[key] = updated
	return updated
}

// Compute updates, inserts, or removes the value for a key under the
// shard lock. fn receives the current value; returning keep=false
// removes the key instead of storing the result.
func (m *Map[K, V]) Compute(key K, fn func(value V, exists bool) (V, bool)) {
	sh := m.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, exists := sh.items[key]
	updated, keep := fn(existing, exists)
	if keep {
		sh.items[key] = updated
	} else if exists {
		delete(sh.items, key)
	}
}

// Count returns the total number of items across all shards.
func (m *Map[K, V]) Count() int {
	count := 0
	for _, sh := range m.shards {
		sh.mu.RLock()
		count += len(sh.items)
		sh.mu.RUnlock()
	}
	return count
}

// Clear removes all items.
func (m *Map[K, V]) Clear() {
	for _, sh := range m.shards {
		sh.mu.Lock()
		sh.items = make(map[K]V)
		sh.mu.Unlock()
	}
}
