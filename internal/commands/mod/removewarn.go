package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /removewarning command
func createRemoveWarnCommand(svc *service.Service) *discord.Command {
	minID := 1.0
	return discord.NewCommand(
		"removewarning",
		"Revoca una advertencia",
		"mod",
		removeWarnHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "warning_id",
			Description: "ID de la advertencia a revocar",
			Required:    true,
			MinValue:    &minID,
		},
	).WithUserPermissions(discord.PermissionModerate).
		WithDeniedMessage("❌ No tienes permisos para revocar advertencias.").
		InGuild()
}

func removeWarnHandler(svc *service.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		id := ctx.GetIntOption("warning_id")

		c, cancel := ctx.Context()
		defer cancel()

		// Scoped to the guild: a warning from another server reads as not found.
		warning, err := svc.RevokeWarning(c, service.RevokeWarningInput{
			WarningID:   id,
			ModeratorID: ctx.User().ID,
			ServerID:    ctx.Interaction.GuildID,
		})
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return ctx.ReplyEphemeral("❌ Advertencia no encontrada o no pertenece a este servidor.")
			}
			return respond.DomainError(ctx, "CMD-RemoveWarning", err)
		}

		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: "✅ Advertencia revocada",
			Color: respond.ColorGreen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "ID", Value: fmt.Sprintf("#%d", warning.ID), Inline: true},
				{Name: "Usuario", Value: respond.Mention(warning.UserID), Inline: true},
				{Name: "Moderador", Value: respond.Mention(ctx.User().ID), Inline: true},
			},
			Footer:    respond.Footer(),
			Timestamp: respond.Now(),
		})
	}
}
