package tickets

import (
	"fmt"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createSetupCommand creates the /setup command
func createSetupCommand(svc *service.Service, dashboardURL string) *discord.Command {
	return discord.NewCommand(
		"setup",
		"Configura DiscordNova en este servidor",
		"tickets",
		setupHandler(svc, dashboardURL),
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithDeniedMessage("❌ Necesitas permisos de administrador para usar este comando.").
		InGuild()
}

func setupHandler(svc *service.Service, dashboardURL string) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		// Creating the default categories takes several writes.
		if err := ctx.Defer(); err != nil {
			return err
		}

		c, cancel := ctx.Context()
		defer cancel()

		info := service.ServerInfo{ID: ctx.Interaction.GuildID, BotJoined: true}
		if g := ctx.Guild(); g != nil {
			info.Name, info.Icon, info.OwnerID = g.Name, g.Icon, g.OwnerID
		} else if g, err := ctx.Session.Guild(ctx.Interaction.GuildID); err == nil {
			info.Name, info.Icon, info.OwnerID = g.Name, g.Icon, g.OwnerID
		}

		_, created, err := svc.RegisterServer(c, info)
		if err != nil {
			return respond.DeferredError(ctx, "CMD-Setup", err)
		}

		return ctx.EditReplyEmbed(setupEmbed(dashboardURL, created))
	}
}

func setupEmbed(dashboardURL string, created bool) *discordgo.MessageEmbed {
	desc := "¡El bot se configuró correctamente para este servidor!"
	if !created {
		desc = "El servidor ya estaba registrado; se actualizaron sus datos."
	}
	return &discordgo.MessageEmbed{
		Title:       "✅ Configuración de DiscordNova completada",
		Description: desc,
		Color:       respond.ColorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Panel", Value: fmt.Sprintf("Accede en: %s", dashboardURL)},
			{Name: "Funciones", Value: "• Sistema de advertencias\n• Sistema de tickets\n• Herramientas de moderación\n• Registro de auditoría"},
		},
		Footer:    respond.Footer(),
		Timestamp: respond.Now(),
	}
}
