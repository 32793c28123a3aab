package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// FileBackend keeps one pretty-printed JSON array per collection in a
// directory, e.g. data/warnings.json.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates the data directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

// Load reads a collection file. A missing or empty file is an empty collection.
func (b *FileBackend) Load(_ context.Context, collection string) ([]Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("archivo %s corrupto: %w", b.path(collection), err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, Document{Body: raw})
	}
	return docs, nil
}

// Save writes the snapshot to a temp file and renames it over the old one.
func (b *FileBackend) Save(_ context.Context, collection string, docs []Document) error {
	raws := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		raws = append(raws, json.RawMessage(d.Body))
	}
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(b.dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), b.path(collection))
}

func (b *FileBackend) Status() (string, bool) {
	if _, err := os.Stat(b.dir); err != nil {
		return "🔴 | Directorio de datos no disponible", false
	}
	return "🟢 | Archivos JSON", true
}

func (b *FileBackend) Close(context.Context) error { return nil }
