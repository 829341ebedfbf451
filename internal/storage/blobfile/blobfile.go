// Package blobfile stores payload blobs on disk, sharded across
// directories by key hash. The memory registry remains authoritative
// for queue order and metadata; the blob store only offloads payload
// bytes that are too large to pin in memory.
package blobfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/spaolacci/murmur3"
)

// Store is a sharded file-backed blob store. Writes go through a
// temp file and rename, so readers never observe partial blobs.
type Store struct {
	root   string
	shards uint32
}

// New creates a blob store rooted at dir with the given number of
// shard directories.
func New(dir string, shards int) (*Store, error) {
	if shards < 1 {
		return nil, fmt.Errorf("blobfile: shard count %d, need at least 1", shards)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("blobfile: create root: %w", err)
	}
	return &Store{root: dir, shards: uint32(shards)}, nil
}

// shardDir maps a key to its shard directory.
func (s *Store) shardDir(key string) string {
	h := murmur3.Sum32([]byte(key))
	return filepath.Join(s.root, fmt.Sprintf("%03d", h%s.shards))
}

func (s *Store) path(key string) string {
	// Keys are ULIDs or zone/tracking identifiers, already safe as
	// file names.
	return filepath.Join(s.shardDir(key), key+".blob")
}

// Put writes a blob under key, replacing any previous value.
func (s *Store) Put(key string, data []byte) error {
	dir := s.shardDir(key)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("blobfile: create shard: %w", err)
	}

	tmp := filepath.Join(dir, "tmp-"+ulid.Make().String())
	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return fmt.Errorf("blobfile: write temp: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("blobfile: commit: %w", err)
	}
	return nil
}

// Get reads the blob stored under key. The second return is false
// when no blob exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("blobfile: read: %w", err)
	}
	return data, true, nil
}

// Delete removes the blob under key. Deleting a missing key is a
// no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blobfile: delete: %w", err)
	}
	return nil
}

// Clear removes every stored blob.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("blobfile: clear: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			return fmt.Errorf("blobfile: clear shard %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Size reports the stored size of the blob under key, or false when
// absent.
func (s *Store) Size(key string) (int64, bool, error) {
	info, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("blobfile: stat: %w", err)
	}
	return info.Size(), true, nil
}
