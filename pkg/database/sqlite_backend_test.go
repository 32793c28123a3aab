package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/DiscordNova/pkg/models"
)

func TestSQLiteBackendStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nova.db")

	b, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	store := NewStore(b)
	for _, name := range []string{"Soporte", "Quejas", "Preguntas"} {
		name := name
		_, err := store.TicketCategories.Insert(ctx, func(items []models.TicketCategory) (models.TicketCategory, error) {
			return models.TicketCategory{
				ID:       NextID(items, func(c models.TicketCategory) int64 { return c.ID }),
				ServerID: "g1",
				Name:     name,
				Color:    models.DefaultCategoryColor,
				IsActive: true,
			}, nil
		})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close(ctx)

	loaded, err := Open(ctx, reopened)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got := loaded.TicketCategories.All()
	if len(got) != 3 {
		t.Fatalf("len = %v, want 3", len(got))
	}
	for i, want := range []string{"Soporte", "Quejas", "Preguntas"} {
		if got[i].Name != want || got[i].ID != int64(i+1) {
			t.Errorf("category[%d] = %v/%v, want %v/%v", i, got[i].ID, got[i].Name, i+1, want)
		}
	}
}
