package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendMissingCollectionIsEmpty(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	docs, err := b.Load(context.Background(), WarningsCollection)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %v, want 0", len(docs))
	}
}

func TestFileBackendSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	ctx := context.Background()

	docs := []Document{
		{Key: "1", Body: []byte(`{"id":1,"reason":"spam"}`)},
		{Key: "2", Body: []byte(`{"id":2,"reason":"flood"}`)},
	}
	if err := b.Save(ctx, WarningsCollection, docs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "warnings.json")); err != nil {
		t.Fatalf("warnings.json not written: %v", err)
	}

	got, err := b.Load(ctx, WarningsCollection)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %v, want 2", len(got))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("files in data dir = %v, want 1 (no temp files left)", len(entries))
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tickets.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	b, _ := NewFileBackend(dir)
	if _, err := b.Load(context.Background(), TicketsCollection); err == nil {
		t.Error("Load() error = nil, want error for corrupt file")
	}
}

func TestOpenBackendUnknownDriver(t *testing.T) {
	if _, err := OpenBackend(context.Background(), BackendOptions{Driver: "redis"}); err == nil {
		t.Error("OpenBackend() error = nil, want error")
	}
}
