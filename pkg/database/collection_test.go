package database

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/models"
)

// memoryBackend keeps snapshots in a map and can be told to fail saves.
type memoryBackend struct {
	mu       sync.Mutex
	data     map[string][]Document
	failSave bool
	saves    int
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: make(map[string][]Document)}
}

func (m *memoryBackend) Load(_ context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[collection], nil
}

func (m *memoryBackend) Save(_ context.Context, collection string, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
	m.saves++
	m.data[collection] = docs
	return nil
}

func (m *memoryBackend) Status() (string, bool)      { return "ok", true }
func (m *memoryBackend) Close(context.Context) error { return nil }

func warningsCollection(b Backend) *Collection[models.Warning] {
	return NewStore(b).Warnings
}

func TestNextID(t *testing.T) {
	idOf := func(w models.Warning) int64 { return w.ID }
	tests := []struct {
		name  string
		items []models.Warning
		want  int64
	}{
		{"empty", nil, 1},
		{"sequential", []models.Warning{{ID: 1}, {ID: 2}}, 3},
		{"gap", []models.Warning{{ID: 7}, {ID: 2}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextID(tt.items, idOf); got != tt.want {
				t.Errorf("NextID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectionInsertPersists(t *testing.T) {
	b := newMemoryBackend()
	c := warningsCollection(b)

	w, err := c.Insert(context.Background(), func(items []models.Warning) (models.Warning, error) {
		return models.Warning{ID: NextID(items, func(w models.Warning) int64 { return w.ID }), Reason: "spam", IsActive: true}, nil
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if w.ID != 1 {
		t.Errorf("ID = %v, want 1", w.ID)
	}
	if b.saves != 1 {
		t.Errorf("saves = %v, want 1", b.saves)
	}
	if got := b.data[WarningsCollection][0].Key; got != "1" {
		t.Errorf("stored key = %q, want %q", got, "1")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %v, want 1", c.Len())
	}
}

func TestCollectionSaveFailureRollsBack(t *testing.T) {
	b := newMemoryBackend()
	c := warningsCollection(b)
	ctx := context.Background()

	if _, err := c.Insert(ctx, func([]models.Warning) (models.Warning, error) {
		return models.Warning{ID: 1, IsActive: true}, nil
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	b.failSave = true
	_, ok, err := c.Update(ctx, func(w models.Warning) bool { return w.ID == 1 }, func(w *models.Warning) error {
		w.IsActive = false
		return nil
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Update() error = %v, want ErrPersistence", err)
	}
	if ok {
		t.Error("Update() ok = true on failed save")
	}
	got, _ := c.Find(func(w models.Warning) bool { return w.ID == 1 })
	if !got.IsActive {
		t.Error("record changed in memory after failed save")
	}
}

func TestCollectionUpdateNoMatch(t *testing.T) {
	b := newMemoryBackend()
	c := warningsCollection(b)

	_, ok, err := c.Update(context.Background(), func(models.Warning) bool { return false }, func(*models.Warning) error { return nil })
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if ok {
		t.Error("Update() ok = true, want false")
	}
	if b.saves != 0 {
		t.Errorf("saves = %v, want 0", b.saves)
	}
}

func TestCollectionConcurrentInsertsKeepUniqueIDs(t *testing.T) {
	c := warningsCollection(newMemoryBackend())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Insert(ctx, func(items []models.Warning) (models.Warning, error) {
				return models.Warning{ID: NextID(items, func(w models.Warning) int64 { return w.ID })}, nil
			})
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, w := range c.All() {
		if seen[w.ID] {
			t.Fatalf("duplicate id %d", w.ID)
		}
		seen[w.ID] = true
	}
	if len(seen) != 50 {
		t.Errorf("records = %v, want 50", len(seen))
	}
}

func TestCollectionReloadRoundTrip(t *testing.T) {
	b := newMemoryBackend()
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 30, 0, 123, time.UTC)
	channel := "123"

	tickets := NewStore(b).Tickets
	want := models.Ticket{
		ID: 1, ServerID: "g1", UserID: "u1", CategoryID: 2, ChannelID: &channel,
		Subject: "ayuda", Status: models.TicketOpen, Priority: models.PriorityNormal,
		CreatedAt: created, UpdatedAt: created,
	}
	if _, err := tickets.Insert(ctx, func([]models.Ticket) (models.Ticket, error) { return want, nil }); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	reloaded := NewStore(b).Tickets
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := reloaded.All()
	if len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Errorf("reloaded = %+v, want %+v", got, want)
	}
}
