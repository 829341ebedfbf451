// Package cmap provides a concurrent-safe sharded map.
//
// The key space is split across a power-of-two number of shards, each
// guarded by its own RWMutex, which keeps contention low for
// write-heavy tables such as the per-address access watch that is
// touched on every request.
//
// All operations are safe for concurrent use. Read operations (Get,
// Has) take a shard read lock; write operations (Set, Delete, Update)
// take a shard write lock. Iteration locks one shard at a time, so the
// observed view may not be a single consistent snapshot.
package cmap
