package tickets

import (
	"testing"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func TestCategoryChoices(t *testing.T) {
	cats := []models.TicketCategory{
		{Name: "Preguntas", Emoji: models.StringPtr("❓")},
		{Name: "Quejas"},
		{Name: "Soporte", Emoji: models.StringPtr("🎧")},
	}

	all := categoryChoices(cats, "")
	if len(all) != 3 || all[0].Name != "❓ Preguntas" || all[0].Value != "Preguntas" {
		t.Errorf("choices = %+v", all)
	}

	filtered := categoryChoices(cats, "SOP")
	if len(filtered) != 1 || filtered[0].Value != "Soporte" {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#ED4245", 0xED4245},
		{"#57f287", 0x57F287},
		{"rojo", respond.ColorBlurple},
	}
	for _, tt := range tests {
		if got := parseColor(tt.in); got != tt.want {
			t.Errorf("parseColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestTicketButtons(t *testing.T) {
	row := ticketButtons(12)
	if len(row.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(row.Components))
	}
	claim := row.Components[0].(discordgo.Button)
	closeBtn := row.Components[1].(discordgo.Button)
	if claim.CustomID != "claim_ticket_12" || closeBtn.CustomID != "close_ticket_12" {
		t.Errorf("custom ids = %q, %q", claim.CustomID, closeBtn.CustomID)
	}
	if id, ok := parseTicketID("12"); !ok || id != 12 {
		t.Errorf("parseTicketID(12) = %d, %v", id, ok)
	}
	if _, ok := parseTicketID("x"); ok {
		t.Error("parseTicketID(x) should fail")
	}
}

func TestCategoryNames(t *testing.T) {
	if got := categoryNames(nil); got != "ninguna" {
		t.Errorf("categoryNames(nil) = %q", got)
	}
	got := categoryNames([]models.TicketCategory{{Name: "Soporte"}, {Name: "Quejas"}})
	if got != "Soporte, Quejas" {
		t.Errorf("categoryNames() = %q", got)
	}
}
