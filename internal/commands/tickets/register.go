// Package tickets provides the ticket and setup slash commands and the
// claim/close buttons attached to ticket messages.
package tickets

import (
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
)

// Button custom id prefixes. The ticket id follows the prefix.
const (
	ClaimPrefix = "claim_ticket_"
	ClosePrefix = "close_ticket_"
)

// RegisterTicketCommands registers /ticket, /setup and the ticket buttons.
func RegisterTicketCommands(client *discord.ExtendedClient, svc *service.Service, dashboardURL string) {
	client.CommandHandler.RegisterCommand(createTicketCommand(svc))
	client.CommandHandler.RegisterCommand(createSetupCommand(svc, dashboardURL))

	client.Buttons.Add(&discord.Button{
		Prefix:          ClaimPrefix,
		UserPermissions: discord.PermissionModerate,
		DeniedMessage:   "❌ No tienes permisos para reclamar tickets.",
		Run:             claimButton(svc),
	})
	client.Buttons.Add(&discord.Button{
		Prefix:          ClosePrefix,
		UserPermissions: discord.PermissionModerate,
		DeniedMessage:   "❌ No tienes permisos para cerrar tickets.",
		Run:             closeButton(svc),
	})
}
