package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Collection is the authoritative in-memory copy of one persisted collection.
// Reads share a lock; writes hold it exclusively across mutate and save, so
// concurrent writers never lose each other's updates.
type Collection[T any] struct {
	name    string
	backend Backend
	keyOf   func(T) string

	mu    sync.RWMutex
	items []T
}

// NewCollection creates an empty collection. Call Load to fill it.
func NewCollection[T any](name string, backend Backend, keyOf func(T) string) *Collection[T] {
	return &Collection[T]{
		name:    name,
		backend: backend,
		keyOf:   keyOf,
	}
}

// Name returns the stored collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load replaces the in-memory content with what the backend holds.
func (c *Collection[T]) Load(ctx context.Context) error {
	docs, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return fmt.Errorf("cargar %s: %w", c.name, err)
	}

	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var item T
		if err := json.Unmarshal(d.Body, &item); err != nil {
			return fmt.Errorf("decodificar %s: %w", c.name, err)
		}
		items = append(items, item)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// All returns a copy of every record in stored order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the first record matching fn.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns every record matching fn.
func (c *Collection[T]) Filter(fn func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0)
	for _, item := range c.items {
		if fn(item) {
			out = append(out, item)
		}
	}
	return out
}

// Write runs fn with a copy of the records under the write lock. The slice fn
// returns is saved to the backend and only then becomes visible. If fn or the
// save fails nothing changes.
func (c *Collection[T]) Write(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]T, len(c.items))
	copy(working, c.items)

	next, err := fn(working)
	if err != nil {
		return err
	}

	docs := make([]Document, 0, len(next))
	for _, item := range next {
		body, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("%w: codificar %s: %v", ErrPersistence, c.name, err)
		}
		docs = append(docs, Document{Key: c.keyOf(item), Body: body})
	}

	if err := c.backend.Save(ctx, c.name, docs); err != nil {
		return fmt.Errorf("%w: guardar %s: %v", ErrPersistence, c.name, err)
	}

	c.items = next
	return nil
}

// Insert appends the record built by build. build receives the records
// currently stored, so derived values (ids, counters) are computed under the
// same lock as the save.
func (c *Collection[T]) Insert(ctx context.Context, build func(items []T) (T, error)) (T, error) {
	var created T
	err := c.Write(ctx, func(items []T) ([]T, error) {
		item, err := build(items)
		if err != nil {
			return nil, err
		}
		created = item
		return append(items, item), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update applies fn to the first record matching match. ok is false when no
// record matched, in which case nothing is saved.
func (c *Collection[T]) Update(ctx context.Context, match func(T) bool, fn func(*T) error) (updated T, ok bool, err error) {
	err = c.Write(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if !match(items[i]) {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			ok = true
			return items, nil
		}
		return nil, errNoMatch
	})
	if err == errNoMatch {
		return updated, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return updated, ok, nil
}

var errNoMatch = errors.New("no match")

// NextID returns max(id)+1, or 1 for an empty collection.
func NextID[T any](items []T, idOf func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if id := idOf(item); id > max {
			max = id
		}
	}
	return max + 1
}
