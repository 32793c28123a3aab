package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/auth"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
	"github.com/PancyStudios/DiscordNova/pkg/web"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

type fakeExchanger struct {
	identity auth.Identity
	err      error
}

func (f fakeExchanger) Exchange(_ context.Context, code string) (auth.Identity, error) {
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	return f.identity, nil
}

func (f fakeExchanger) AuthCodeURL(state string) string {
	return "https://discord.test/oauth2/authorize?state=" + state
}

type testEnv struct {
	server *web.Server
	svc    *service.Service
	tokens *auth.JWTManager
}

func newTestEnv(t *testing.T, ex auth.Exchanger) *testEnv {
	t.Helper()
	backend, err := database.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	store, err := database.Open(context.Background(), backend)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	svc := service.New(store, hub)
	tokens := auth.NewJWTManager("test-secret", time.Hour)

	s, err := web.NewServer(web.Options{RateLimit: 1000})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	New(svc, tokens, ex, hub, Options{WSRequireAuth: true, DashboardURL: "https://nova.test/"}).Register(s)
	return &testEnv{server: s, svc: svc, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := e.tokens.Issue(userID, "tester")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestLogin(t *testing.T) {
	ex := fakeExchanger{identity: auth.Identity{
		ID:          "u1",
		Username:    "alice",
		AccessToken: "discord-access",
		Guilds: []auth.Guild{
			{ID: "g1", Name: "Propio", Owner: true},
			{ID: "g2", Name: "Administrado", Permissions: discordgo.PermissionAdministrator},
			{ID: "g3", Name: "Visitante"},
		},
	}}
	env := newTestEnv(t, ex)

	rec := env.do(t, http.MethodPost, "/api/auth/discord", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("login without code = %v, want %v", rec.Code, http.StatusBadRequest)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/discord", "", map[string]string{"code": "abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %v, want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	resp := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, rec)
	if resp.User.ID != "u1" || resp.User.AccessToken != nil {
		t.Errorf("login user = %+v, want id u1 without tokens", resp.User)
	}
	claims, err := env.tokens.Parse(resp.Token)
	if err != nil || claims.UserID != "u1" {
		t.Errorf("Parse(token) = %+v, %v", claims, err)
	}

	rec = env.do(t, http.MethodGet, "/api/user/servers", resp.Token, nil)
	servers := decode[[]models.Server](t, rec)
	if len(servers) != 2 {
		t.Fatalf("servers = %d, want 2", len(servers))
	}
	if _, err := env.svc.GetServer(context.Background(), "g3"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetServer(g3) error = %v, want ErrNotFound", err)
	}
	if got := len(env.svc.ListTicketCategories(context.Background(), "g1")); got != 3 {
		t.Errorf("default categories = %d, want 3", got)
	}
}

func TestLoginUpstreamFailure(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{err: errors.New("invalid_grant")})
	rec := env.do(t, http.MethodPost, "/api/auth/discord", "", map[string]string{"code": "abc"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("login = %v, want %v", rec.Code, http.StatusBadGateway)
	}
}

func TestAuthURL(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{})

	rec := env.do(t, http.MethodGet, "/api/auth/url", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("auth url = %v, want %v", rec.Code, http.StatusOK)
	}
	resp := decode[struct {
		URL   string `json:"url"`
		State string `json:"state"`
	}](t, rec)
	if resp.State == "" {
		t.Fatal("state is empty")
	}
	if resp.URL != "https://discord.test/oauth2/authorize?state="+resp.State {
		t.Errorf("url = %v, want it to carry state %v", resp.URL, resp.State)
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, stateCookie+"="+resp.State) {
		t.Errorf("Set-Cookie = %q, want the state", cookie)
	}
}

func TestAuthCallback(t *testing.T) {
	ex := fakeExchanger{identity: auth.Identity{ID: "u1", Username: "alice"}}
	env := newTestEnv(t, ex)

	rec := env.do(t, http.MethodGet, "/auth/callback?code=abc&state=s1", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("callback = %v, want %v", rec.Code, http.StatusFound)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("Location parse error: %v", err)
	}
	if loc.Host != "nova.test" || loc.Path != "/" {
		t.Errorf("Location = %v, want https://nova.test/?token=...", loc)
	}
	claims, err := env.tokens.Parse(loc.Query().Get("token"))
	if err != nil || claims.UserID != "u1" {
		t.Errorf("Parse(token) = %+v, %v", claims, err)
	}

	rec = env.do(t, http.MethodGet, "/auth/callback", "", nil)
	if got := rec.Header().Get("Location"); got != "https://nova.test/login?error=no_code" {
		t.Errorf("callback without code Location = %v", got)
	}

	failing := newTestEnv(t, fakeExchanger{err: errors.New("invalid_grant")})
	rec = failing.do(t, http.MethodGet, "/auth/callback?code=bad", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("failed callback = %v, want %v", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "https://nova.test/login?error=auth_failed" {
		t.Errorf("failed callback Location = %v", got)
	}
}

func TestAuthCallbackStateMismatch(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{identity: auth.Identity{ID: "u1", Username: "alice"}})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "issued"})
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	if got := rec.Header().Get("Location"); got != "https://nova.test/login?error=invalid_state" {
		t.Errorf("Location = %v, want invalid_state", got)
	}
	if _, err := env.svc.GetUser(context.Background(), "u1"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetUser(u1) error = %v, want ErrNotFound", err)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"invalid", "not-a-jwt", http.StatusForbidden},
		{"valid", env.token(t, "u1"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/warnings/g1", tt.token, nil)
			if rec.Code != tt.want {
				t.Errorf("GET /api/warnings = %v, want %v", rec.Code, tt.want)
			}
		})
	}

	if rec := env.do(t, http.MethodGet, "/ws", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /ws without token = %v, want %v", rec.Code, http.StatusUnauthorized)
	}
}

func TestWarningLifecycle(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{})
	token := env.token(t, "mod1")

	rec := env.do(t, http.MethodPost, "/api/warnings", token, map[string]string{
		"userId": "u2", "serverId": "g1", "reason": "spam",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create warning = %v: %s", rec.Code, rec.Body.String())
	}
	w := decode[models.Warning](t, rec)
	if w.ModeratorID != "mod1" || w.WarningNumber != 1 || !w.IsActive {
		t.Errorf("warning = %+v", w)
	}

	rec = env.do(t, http.MethodPost, "/api/warnings", token, map[string]string{"serverId": "g1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid warning = %v, want %v", rec.Code, http.StatusBadRequest)
	}
	fields := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec).Fields
	if fields["userId"] == "" || fields["reason"] == "" {
		t.Errorf("fields = %v, want userId and reason", fields)
	}

	rec = env.do(t, http.MethodDelete, "/api/warnings/1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete warning = %v", rec.Code)
	}
	if w := decode[models.Warning](t, rec); w.IsActive {
		t.Error("revoked warning still active")
	}

	if rec := env.do(t, http.MethodDelete, "/api/warnings/99", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete missing warning = %v, want %v", rec.Code, http.StatusNotFound)
	}
	if rec := env.do(t, http.MethodDelete, "/api/warnings/abc", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("delete bad id = %v, want %v", rec.Code, http.StatusBadRequest)
	}
}

func TestTicketFlow(t *testing.T) {
	env := newTestEnv(t, fakeExchanger{})
	member := env.token(t, "member")
	staff := env.token(t, "staff")

	rec := env.do(t, http.MethodPost, "/api/ticket-categories", staff, map[string]string{
		"serverId": "g1", "name": "Soporte",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create category = %v: %s", rec.Code, rec.Body.String())
	}
	cat := decode[models.TicketCategory](t, rec)
	if cat.Color != models.DefaultCategoryColor {
		t.Errorf("category color = %q, want %q", cat.Color, models.DefaultCategoryColor)
	}

	rec = env.do(t, http.MethodPost, "/api/tickets", member, map[string]any{
		"serverId": "g1", "categoryId": cat.ID, "subject": "No puedo entrar",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create ticket = %v: %s", rec.Code, rec.Body.String())
	}
	ticket := decode[models.Ticket](t, rec)
	if ticket.UserID != "member" || ticket.Status != models.TicketOpen {
		t.Errorf("ticket = %+v", ticket)
	}

	rec = env.do(t, http.MethodPut, "/api/tickets/1/claim", staff, nil)
	claimed := decode[models.Ticket](t, rec)
	if claimed.Status != models.TicketAssigned || models.Deref(claimed.AssignedTo) != "staff" {
		t.Errorf("claimed = %+v", claimed)
	}

	env.do(t, http.MethodPost, "/api/tickets/1/messages", member, map[string]string{"content": "hola"})
	env.do(t, http.MethodPost, "/api/tickets/1/messages", staff, map[string]string{"content": "revisando"})
	rec = env.do(t, http.MethodGet, "/api/tickets/1/messages", staff, nil)
	msgs := decode[[]models.TicketMessage](t, rec)
	if len(msgs) != 2 || msgs[0].IsStaff || !msgs[1].IsStaff {
		t.Errorf("messages = %+v", msgs)
	}

	rec = env.do(t, http.MethodPut, "/api/tickets/1", staff, map[string]string{"status": "closed"})
	if got := decode[models.Ticket](t, rec); got.Status != models.TicketClosed {
		t.Errorf("status = %q, want closed", got.Status)
	}
	rec = env.do(t, http.MethodGet, "/api/tickets/g1/active", staff, nil)
	if active := decode[[]models.Ticket](t, rec); len(active) != 0 {
		t.Errorf("active tickets = %d, want 0", len(active))
	}

	rec = env.do(t, http.MethodDelete, "/api/ticket-categories/1", staff, nil)
	if got := decode[map[string]bool](t, rec); !got["success"] {
		t.Errorf("delete category = %s", rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/ticket-categories/g1", staff, nil)
	if cats := decode[[]models.TicketCategory](t, rec); len(cats) != 0 {
		t.Errorf("categories after delete = %d, want 0", len(cats))
	}
}
