package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
)

func openTicket(t *testing.T, f *fixture, serverID string, categoryID int64) models.Ticket {
	t.Helper()
	tk, err := f.svc.CreateTicket(context.Background(), TicketInput{
		ServerID: serverID, UserID: "u1", CategoryID: categoryID, Subject: "no puedo entrar",
	})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	f.clock.Advance(time.Minute)
	return tk
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "g1", "Soporte")
	tk := openTicket(t, f, "g1", cat.ID)

	if tk.Status != models.TicketOpen {
		t.Errorf("Status = %v, want open", tk.Status)
	}
	if tk.Priority != models.PriorityNormal {
		t.Errorf("Priority = %v, want normal", tk.Priority)
	}
	if !tk.CreatedAt.Equal(tk.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", tk.UpdatedAt, tk.CreatedAt)
	}
	got := f.events.types()
	if got[len(got)-1] != realtime.TypeTicketCreated {
		t.Errorf("events = %v", got)
	}
}

func TestCreateTicketRejectsForeignCategory(t *testing.T) {
	f := newFixture(t)
	other := f.category(t, "g2", "Soporte")
	deleted := f.category(t, "g1", "Viejo")
	if err := f.svc.DeleteTicketCategory(context.Background(), deleted.ID); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{other.ID, deleted.ID, 999} {
		_, err := f.svc.CreateTicket(context.Background(), TicketInput{
			ServerID: "g1", UserID: "u1", CategoryID: id, Subject: "x",
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("CreateTicket(category %d) error = %v, want ErrValidation", id, err)
		}
	}
	if n := len(f.svc.ListTickets(context.Background(), "g1")); n != 0 {
		t.Errorf("tickets stored = %d, want 0", n)
	}
}

func TestClaimTicketFromAnyStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "g1", "Soporte")
	tk := openTicket(t, f, "g1", cat.ID)

	if _, err := f.svc.CloseTicket(ctx, tk.ID); err != nil {
		t.Fatalf("CloseTicket() error = %v", err)
	}
	claimed, err := f.svc.ClaimTicket(ctx, tk.ID, "staff1")
	if err != nil {
		t.Fatalf("ClaimTicket() error = %v", err)
	}
	if claimed.Status != models.TicketAssigned || models.Deref(claimed.AssignedTo) != "staff1" {
		t.Errorf("claimed = %+v", claimed)
	}
	if _, err := f.svc.ClaimTicket(ctx, 404, "staff1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ClaimTicket(404) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "g1", "Soporte")
	tk := openTicket(t, f, "g1", cat.ID)

	waiting := models.TicketWaiting
	urgent := models.PriorityUrgent
	updated, err := f.svc.UpdateTicket(ctx, tk.ID, TicketPatch{Status: &waiting, Priority: &urgent})
	if err != nil {
		t.Fatalf("UpdateTicket() error = %v", err)
	}
	if updated.Status != waiting || updated.Priority != urgent {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(tk.UpdatedAt) {
		t.Errorf("UpdatedAt not bumped: %v <= %v", updated.UpdatedAt, tk.UpdatedAt)
	}

	bogus := models.TicketStatus("archived")
	if _, err := f.svc.UpdateTicket(ctx, tk.ID, TicketPatch{Status: &bogus}); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateTicket(archived) error = %v, want ErrValidation", err)
	}
}

func TestListActiveTickets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "g1", "Soporte")
	a := openTicket(t, f, "g1", cat.ID)
	b := openTicket(t, f, "g1", cat.ID)
	c := openTicket(t, f, "g1", cat.ID)
	if _, err := f.svc.ClaimTicket(ctx, b.ID, "staff"); err != nil {
		t.Fatal(err)
	}

	all := f.svc.ListTickets(ctx, "g1")
	if len(all) != 3 || all[0].ID != c.ID {
		t.Errorf("ListTickets() = %v", all)
	}
	active := f.svc.ListActiveTickets(ctx, "g1")
	if len(active) != 2 || active[0].ID != c.ID || active[1].ID != a.ID {
		t.Errorf("ListActiveTickets() = %v", active)
	}
}

func TestTicketMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "g1", "Soporte")
	tk := openTicket(t, f, "g1", cat.ID)

	for _, content := range []string{"hola", "¿sigues ahí?"} {
		if _, err := f.svc.PostTicketMessage(ctx, TicketMessageInput{TicketID: tk.ID, UserID: "u1", Content: content}); err != nil {
			t.Fatalf("PostTicketMessage() error = %v", err)
		}
		f.clock.Advance(time.Second)
	}
	if _, err := f.svc.PostTicketMessage(ctx, TicketMessageInput{TicketID: tk.ID, UserID: "u1", Content: " "}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty content error = %v, want ErrValidation", err)
	}
	if _, err := f.svc.PostTicketMessage(ctx, TicketMessageInput{TicketID: 77, UserID: "u1", Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown ticket error = %v, want ErrNotFound", err)
	}

	msgs := f.svc.TicketMessages(ctx, tk.ID)
	if len(msgs) != 2 || msgs[0].Content != "hola" {
		t.Errorf("TicketMessages() = %v", msgs)
	}
}
