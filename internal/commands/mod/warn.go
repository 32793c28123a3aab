package mod

import (
	"fmt"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /warn command
func createWarnCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler(svc),
	).WithOptions(
		userOption("user", "Usuario a advertir"),
		reasonOption("Razón de la advertencia", true),
	).WithUserPermissions(discord.PermissionModerate).
		WithDeniedMessage("❌ No tienes permisos para emitir advertencias.").
		InGuild()
}

func warnHandler(svc *service.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
		}

		c, cancel := ctx.Context()
		defer cancel()

		warning, err := svc.IssueWarning(c, service.IssueWarningInput{
			UserID:      user.ID,
			ServerID:    ctx.Interaction.GuildID,
			ModeratorID: ctx.User().ID,
			Reason:      ctx.GetStringOption("reason"),
		})
		if err != nil {
			return respond.DomainError(ctx, "CMD-Warn", err)
		}

		return ctx.ReplyEmbed(warnEmbed(warning))
	}
}

// warnEmbed turns red once the user reaches the warning limit.
func warnEmbed(w models.Warning) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Advertencia emitida",
		Color: respond.ColorYellow,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usuario", Value: respond.Mention(w.UserID), Inline: true},
			{Name: "Advertencia", Value: fmt.Sprintf("%d/%d", w.WarningNumber, models.WarningLimit), Inline: true},
			{Name: "Moderador", Value: respond.Mention(w.ModeratorID), Inline: true},
			{Name: "Razón", Value: w.Reason},
			{Name: "ID", Value: fmt.Sprintf("#%d", w.ID), Inline: true},
		},
		Footer:    respond.Footer(),
		Timestamp: respond.Now(),
	}
	if w.WarningNumber >= models.WarningLimit {
		embed.Color = respond.ColorRed
		embed.Description = "⚠️ **¡Se alcanzó el número máximo de advertencias!**"
	}
	return embed
}
