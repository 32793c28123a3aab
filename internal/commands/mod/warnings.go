package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /warnings command
func createWarningsCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Muestra las advertencias activas de un usuario",
		"mod",
		warningsHandler(svc),
	).WithOptions(
		userOption("user", "Usuario a consultar"),
	).WithUserPermissions(discord.PermissionModerate).
		WithDeniedMessage("❌ No tienes permisos para ver advertencias.").
		InGuild()
}

func warningsHandler(svc *service.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
		}

		c, cancel := ctx.Context()
		defer cancel()

		active := svc.ListActiveWarnings(c, user.ID, ctx.Interaction.GuildID)
		embed := warningsEmbed(user.Username, active)
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")}
		return ctx.ReplyEmbed(embed)
	}
}

func warningsEmbed(username string, active []models.Warning) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📋 Advertencias de %s", username),
		Color:     respond.ColorBlurple,
		Footer:    respond.Footer(),
		Timestamp: respond.Now(),
	}
	if len(active) == 0 {
		embed.Description = "No se encontraron advertencias activas."
		return embed
	}

	lines := make([]string, 0, len(active))
	for _, w := range active {
		lines = append(lines, fmt.Sprintf("**%d.** %s - %s (%s) `#%d`",
			w.WarningNumber, w.Reason, respond.Mention(w.ModeratorID), w.CreatedAt.Format("02/01/2006"), w.ID))
	}
	embed.Description = strings.Join(lines, "\n")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Advertencias activas", Value: fmt.Sprintf("%d/%d", len(active), models.WarningLimit), Inline: true},
	}
	return embed
}
