// Package utils provides the informational slash commands.
package utils

import (
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
)

// RegisterUtilsCommands registers /help and /stats
func RegisterUtilsCommands(client *discord.ExtendedClient, svc *service.Service) {
	client.CommandHandler.RegisterCommand(createHelpCommand())
	client.CommandHandler.RegisterCommand(createStatsCommand(svc))
}
