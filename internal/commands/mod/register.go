// Package mod provides the moderation slash commands. Each command lives in
// its own file and writes through the domain service.
package mod

import (
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterModCommands registers the moderation commands as top-level slash
// commands.
func RegisterModCommands(client *discord.ExtendedClient, svc *service.Service) {
	for _, cmd := range []*discord.Command{
		createWarnCommand(svc),
		createWarningsCommand(svc),
		createRemoveWarnCommand(svc),
		createKickCommand(svc),
		createBanCommand(svc),
		createMuteCommand(svc),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

func userOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func reasonOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: description,
		Required:    required,
		MaxLength:   512,
	}
}

func intOption(name, description string, required bool, min, max float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    &min,
		MaxValue:    max,
	}
}
