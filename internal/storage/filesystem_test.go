package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndPath(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	key, err := store.Write(context.Background(), "mountain_sunrise_0.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "mountain_sunrise_0.jpg" {
		t.Fatalf("key = %q", key)
	}

	data, err := os.ReadFile(store.Path(key))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("content = %q", data)
	}
}

func TestWriteCreatesSubdirectories(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	key, err := store.Write(context.Background(), "2026/08/quote_1.jpg", []byte("x"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := os.Stat(store.Path(key)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if _, err := store.Write(context.Background(), "../escape.jpg", []byte("x")); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "escape.jpg")); err == nil {
		t.Fatalf("file escaped the storage root")
	}
}

func TestWriteRejectsEmptyKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
}

func TestWriteHonorsCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.jpg", []byte("x")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
