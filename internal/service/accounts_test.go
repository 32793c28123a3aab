package service

import (
	"context"
	"testing"
)

func TestRegisterServerCreatesDefaultsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	srv, created, err := f.svc.RegisterServer(ctx, ServerInfo{ID: "g1", Name: "Nova", OwnerID: "owner"})
	if err != nil {
		t.Fatalf("RegisterServer() error = %v", err)
	}
	if !created || srv.BotJoined {
		t.Errorf("created = %v, BotJoined = %v; want true, false", created, srv.BotJoined)
	}
	if got := len(f.svc.ListTicketCategories(ctx, "g1")); got != 3 {
		t.Fatalf("default categories = %d, want 3", got)
	}

	srv, created, err = f.svc.RegisterServer(ctx, ServerInfo{ID: "g1", Name: "Nova 2", BotJoined: true})
	if err != nil {
		t.Fatalf("RegisterServer() error = %v", err)
	}
	if created {
		t.Error("second RegisterServer() reported created")
	}
	if srv.Name != "Nova 2" || !srv.BotJoined || srv.OwnerID != "owner" {
		t.Errorf("server = %+v", srv)
	}
	if got := len(f.svc.ListTicketCategories(ctx, "g1")); got != 3 {
		t.Errorf("categories after re-register = %d, want 3", got)
	}
}

func TestUpsertUserAndServers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UpsertUser(ctx, UserProfile{ID: "u1", Username: "ana", AccessToken: "a"})
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	f.clock.Advance(1)
	second, err := f.svc.UpsertUser(ctx, UserProfile{ID: "u1", Username: "ana_b", AccessToken: "b"})
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	if second.Username != "ana_b" || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("second = %+v", second)
	}
	if second.Public().AccessToken != nil {
		t.Error("Public() leaks the access token")
	}

	for _, id := range []string{"g2", "g1"} {
		if _, _, err := f.svc.RegisterServer(ctx, ServerInfo{ID: id, Name: "S" + id, OwnerID: "u1"}); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := f.svc.RegisterServer(ctx, ServerInfo{ID: "g3", Name: "ajeno", OwnerID: "u9"}); err != nil {
		t.Fatal(err)
	}
	servers := f.svc.UserServers(ctx, "u1")
	if len(servers) != 2 || servers[0].ID != "g1" {
		t.Errorf("UserServers() = %v", servers)
	}
}
