// Package commands wires every slash command category into the client.
// Commands are organized in subdirectories by category (mod, tickets, utils).
package commands

import (
	"fmt"

	"github.com/PancyStudios/DiscordNova/internal/commands/mod"
	"github.com/PancyStudios/DiscordNova/internal/commands/tickets"
	"github.com/PancyStudios/DiscordNova/internal/commands/utils"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
)

// Options carries the settings commands need besides the service.
type Options struct {
	DashboardURL string
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *service.Service, opts Options) {
	mod.RegisterModCommands(client, svc)
	tickets.RegisterTicketCommands(client, svc, opts.DashboardURL)
	utils.RegisterUtilsCommands(client, svc)

	logger.System(fmt.Sprintf("Comandos cargados: %d", client.Commands.Size()), "CommandHandler")
}
