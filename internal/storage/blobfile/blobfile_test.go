package blobfile

import (
	"bytes"
	"fmt"
	"os"
	"testing"
)

func TestStore_PutGetDelete(t *testing.T) {
	s, err := New(t.TempDir(), 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Put("01JX5T0001", []byte("payload bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok, err := s.Get("01JX5T0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || !bytes.Equal(data, []byte("payload bytes")) {
		t.Fatalf("Get = %q, %v; want %q, true", data, ok, "payload bytes")
	}

	if err := s.Delete("01JX5T0001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("01JX5T0001"); ok {
		t.Fatalf("blob still present after delete")
	}
	// Deleting again is a no-op.
	if err := s.Delete("01JX5T0001"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s, err := New(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, ok, err := s.Get("no-such-key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("missing key reported present")
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s, err := New(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put("k", []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("k", []byte("new")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("Get = %q, want %q", data, "new")
	}
}

func TestStore_Size(t *testing.T) {
	s, err := New(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put("k", []byte("12345")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	n, ok, err := s.Size("k")
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if !ok || n != 5 {
		t.Fatalf("Size = %d, %v; want 5, true", n, ok)
	}
	if _, ok, _ := s.Size("absent"); ok {
		t.Fatalf("missing key reported present")
	}
}

func TestStore_ShardSpread(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 64; i++ {
		if err := s.Put(fmt.Sprintf("key-%03d", i), []byte("x")); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	dirs := 0
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		}
	}
	if dirs < 2 {
		t.Fatalf("64 keys landed in %d shard dirs, want spread", dirs)
	}
}

func TestStore_Clear(t *testing.T) {
	s, err := New(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := s.Put(fmt.Sprintf("k%d", i), []byte("x")); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, ok, _ := s.Get(fmt.Sprintf("k%d", i)); ok {
			t.Fatalf("blob k%d survived Clear", i)
		}
	}
}

func TestNew_InvalidShards(t *testing.T) {
	if _, err := New(t.TempDir(), 0); err == nil {
		t.Fatalf("shard count 0 accepted")
	}
}
