package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteStoresUnderBasePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	key, err := store.Write(context.Background(), "uploads/sku.png", []byte("payload"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "uploads/sku.png" {
		t.Fatalf("key = %q, want %q", key, "uploads/sku.png")
	}
	data, err := os.ReadFile(filepath.Join(dir, "uploads", "sku.png"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("stored data = %q, want %q", data, "payload")
	}
}

func TestWriteRejectsTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	for _, key := range []string{"../escape.png", "..", "uploads/../../escape.png", "", "   "} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Write(%q) succeeded, want error", key)
		}
	}
}

func TestWriteNormalizesLeadingSlashes(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	key, err := store.Write(context.Background(), "/uploads/sku.png", []byte("x"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "uploads/sku.png" {
		t.Fatalf("key = %q, want %q", key, "uploads/sku.png")
	}
}

func TestNewFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("NewFileStore with blank path succeeded, want error")
	}
}
