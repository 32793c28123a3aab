package auth

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestIssueAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, exp, err := m.Issue("123", "ana")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != "123" || claims.Username != "ana" {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestParseRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	good, _, _ := m.Issue("123", "ana")

	other := NewJWTManager("other", time.Hour)
	expired := NewJWTManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("123", "ana")

	tests := []struct {
		name  string
		m     *JWTManager
		token string
	}{
		{"empty", m, ""},
		{"garbage", m, "not.a.token"},
		{"wrong secret", other, good},
		{"expired", m, old},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"":            "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuildCanManage(t *testing.T) {
	tests := []struct {
		g    Guild
		want bool
	}{
		{Guild{Owner: true}, true},
		{Guild{Permissions: discordgo.PermissionAdministrator}, true},
		{Guild{Permissions: discordgo.PermissionManageMessages}, false},
	}
	for _, tt := range tests {
		if got := tt.g.CanManage(); got != tt.want {
			t.Errorf("CanManage(%+v) = %v, want %v", tt.g, got, tt.want)
		}
	}
}
