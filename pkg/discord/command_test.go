package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}

	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	if cmd.Options == nil {
		t.Fatal("Options is nil")
	}

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "test-option" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "test-option")
	}
}

// TestCommandWithPermissions verifies the permission builder methods
func TestCommandWithPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionSendMessages)

	if cmd.UserPermissions != discordgo.PermissionAdministrator {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionAdministrator)
	}

	if cmd.BotPermissions != discordgo.PermissionSendMessages {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionSendMessages)
	}
}

// TestCommandAsDev verifies the AsDev builder method
func TestCommandAsDev(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).AsDev()

	if !cmd.IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}

	if appCmd.Name != "test" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "test")
	}

	if appCmd.Description != "Test command" {
		t.Errorf("ApplicationCommand Description = %v, want %v", appCmd.Description, "Test command")
	}

	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
}

func TestToApplicationCommandPermissions(t *testing.T) {
	cmd := NewCommand("warn", "Advertir", "mod", func(*CommandContext) error { return nil }).
		WithUserPermissions(PermissionModerate).
		InGuild()

	appCmd := cmd.ToApplicationCommand()
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != PermissionModerate {
		t.Errorf("DefaultMemberPermissions = %v, want %v", appCmd.DefaultMemberPermissions, PermissionModerate)
	}
	if appCmd.DMPermission == nil || *appCmd.DMPermission {
		t.Error("DMPermission should be false for guild-only commands")
	}

	plain := NewCommand("help", "Ayuda", "utils", nil).ToApplicationCommand()
	if plain.DefaultMemberPermissions != nil || plain.DMPermission != nil {
		t.Error("plain command should not restrict permissions")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		required int64
		granted  int64
		owner    bool
		want     bool
	}{
		{"no requirement", 0, 0, false, true},
		{"owner bypass", PermissionModerate, 0, true, true},
		{"moderator", PermissionModerate, discordgo.PermissionModerateMembers, false, true},
		{"administrator", PermissionModerate, discordgo.PermissionAdministrator, false, true},
		{"plain member", PermissionModerate, discordgo.PermissionSendMessages, false, false},
		{"moderator on admin command", discordgo.PermissionAdministrator, discordgo.PermissionModerateMembers, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.required, tt.granted, tt.owner); got != tt.want {
				t.Errorf("HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestButtonRouterMatch(t *testing.T) {
	r := NewButtonRouter()
	claim := &Button{Prefix: "claim_ticket_"}
	closeBtn := &Button{Prefix: "close_ticket_"}
	generic := &Button{Prefix: "c"}
	r.Add(generic)
	r.Add(claim)
	r.Add(closeBtn)

	b, arg, ok := r.Match("claim_ticket_42")
	if !ok || b != claim || arg != "42" {
		t.Errorf("Match(claim_ticket_42) = %v, %q, %v", b, arg, ok)
	}
	b, arg, ok = r.Match("close_ticket_7")
	if !ok || b != closeBtn || arg != "7" {
		t.Errorf("Match(close_ticket_7) = %v, %q, %v", b, arg, ok)
	}
	if _, _, ok := r.Match("other"); ok {
		t.Error("Match(other) should not match")
	}
}

func TestRouteButton(t *testing.T) {
	r := NewButtonRouter()
	claim := &Button{Prefix: "claim_ticket_"}
	r.Add(claim)

	tests := []struct {
		customID  string
		guildID   string
		wantBtn   *Button
		wantArg   string
		rejection string
	}{
		{"claim_ticket_5", "g1", claim, "5", ""},
		{"vote_yes", "g1", nil, "", unknownActionMessage},
		{"claim_ticket_5", "", nil, "", guildOnlyMessage},
	}

	for _, tt := range tests {
		b, arg, rejection := r.routeButton(tt.customID, tt.guildID)
		if b != tt.wantBtn || arg != tt.wantArg || rejection != tt.rejection {
			t.Errorf("routeButton(%q, %q) = %v, %q, %q, want %v, %q, %q",
				tt.customID, tt.guildID, b, arg, rejection, tt.wantBtn, tt.wantArg, tt.rejection)
		}
	}
}

func TestBotHasPermissions(t *testing.T) {
	tests := []struct {
		name     string
		required int64
		granted  int64
		want     bool
	}{
		{"nothing required", 0, 0, true},
		{"exact", discordgo.PermissionBanMembers, discordgo.PermissionBanMembers, true},
		{"missing", discordgo.PermissionBanMembers, discordgo.PermissionKickMembers, false},
		{"partial", discordgo.PermissionBanMembers | discordgo.PermissionKickMembers, discordgo.PermissionKickMembers, false},
		{"administrator", discordgo.PermissionModerateMembers, discordgo.PermissionAdministrator, true},
	}

	for _, tt := range tests {
		if got := BotHasPermissions(tt.required, tt.granted); got != tt.want {
			t.Errorf("%s: BotHasPermissions() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCommandPath(t *testing.T) {
	tests := []struct {
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{discordgo.ApplicationCommandInteractionData{Name: "warn"}, "warn"},
		{discordgo.ApplicationCommandInteractionData{
			Name: "ticket",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "category", Type: discordgo.ApplicationCommandOptionString},
			},
		}, "ticket"},
		{discordgo.ApplicationCommandInteractionData{
			Name: "config",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "show", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		}, "config.show"},
		{discordgo.ApplicationCommandInteractionData{
			Name: "config",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "tickets", Type: discordgo.ApplicationCommandOptionSubCommandGroup, Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "list", Type: discordgo.ApplicationCommandOptionSubCommand},
				}},
			},
		}, "config.tickets.list"},
	}
	for _, tt := range tests {
		if got := commandPath(tt.data); got != tt.want {
			t.Errorf("commandPath(%s) = %q, want %q", tt.data.Name, got, tt.want)
		}
	}
}

func TestFindFocused(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "subject", Value: "x"},
		{Name: "category", Value: "sop", Focused: true},
	}
	if got := findFocused(opts); got == nil || got.Name != "category" {
		t.Errorf("findFocused() = %v, want category", got)
	}
}
