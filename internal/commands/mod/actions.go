package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const noReason = "Sin razón especificada"

const auditFailedNote = "\n⚠️ La acción se aplicó pero no se pudo guardar en el registro de moderación."

// recordAction appends a kick, ban or mute to the audit log. The action
// already happened on Discord, so a failure returns a note for the reply
// instead of an error.
func recordAction(ctx *discord.CommandContext, svc *service.Service, action, targetID, reason string, details map[string]any) string {
	c, cancel := ctx.Context()
	defer cancel()

	err := svc.RecordModerationAction(c, service.ModerationInput{
		ServerID:    ctx.Interaction.GuildID,
		ModeratorID: ctx.User().ID,
		TargetID:    targetID,
		Action:      action,
		Reason:      reason,
		Details:     details,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo registrar %s de %s: %v", action, targetID, err), "CMD-Mod")
		return auditFailedNote
	}
	return ""
}

func reasonOr(ctx *discord.CommandContext) string {
	if reason := ctx.GetStringOption("reason"); reason != "" {
		return reason
	}
	return noReason
}

// createKickCommand creates the /kick command
func createKickCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("user")
			if user == nil {
				return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			}
			reason := reasonOr(ctx)

			if err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, user.ID, reason); err != nil {
				return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al expulsar: %v", err))
			}
			note := recordAction(ctx, svc, models.ActionKick, user.ID, reason, nil)

			return ctx.Reply(fmt.Sprintf("👢 **%s** ha sido expulsado.\n**Razón:** %s%s", user.Username, reason, note))
		},
	).WithOptions(
		userOption("user", "Usuario a expulsar"),
		reasonOption("Razón de la expulsión", false),
	).WithUserPermissions(discord.PermissionModerate).
		WithBotPermissions(discordgo.PermissionKickMembers).
		InGuild()
}

// createBanCommand creates the /ban command
func createBanCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("user")
			if user == nil {
				return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			}
			reason := reasonOr(ctx)
			days := int(ctx.GetIntOption("days"))

			if err := ctx.Session.GuildBanCreateWithReason(ctx.Interaction.GuildID, user.ID, reason, days); err != nil {
				return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al banear: %v", err))
			}
			note := recordAction(ctx, svc, models.ActionBan, user.ID, reason, map[string]any{"deleteMessageDays": days})

			return ctx.Reply(fmt.Sprintf("🔨 **%s** ha sido baneado.\n**Razón:** %s%s", user.Username, reason, note))
		},
	).WithOptions(
		userOption("user", "Usuario a banear"),
		reasonOption("Razón del ban", false),
		intOption("days", "Días de mensajes a eliminar (0-7)", false, 0, 7),
	).WithUserPermissions(discord.PermissionModerate).
		WithBotPermissions(discordgo.PermissionBanMembers).
		InGuild()
}

// createMuteCommand creates the /mute command
func createMuteCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("user")
			if user == nil {
				return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			}
			minutes := ctx.GetIntOption("minutes")
			if minutes < 1 {
				return ctx.ReplyEphemeral("❌ La duración debe ser al menos 1 minuto.")
			}
			reason := reasonOr(ctx)

			until := time.Now().Add(time.Duration(minutes) * time.Minute)
			if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, &until); err != nil {
				return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al silenciar: %v", err))
			}
			note := recordAction(ctx, svc, models.ActionMute, user.ID, reason, map[string]any{"minutes": minutes})

			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "🔇 Usuario silenciado",
				Description: fmt.Sprintf("%s silenciado por %d minutos.%s", respond.Mention(user.ID), minutes, note),
				Color:       respond.ColorYellow,
				Fields:      []*discordgo.MessageEmbedField{{Name: "Razón", Value: reason}},
				Footer:      respond.Footer(),
				Timestamp:   respond.Now(),
			})
		},
	).WithOptions(
		userOption("user", "Usuario a silenciar"),
		intOption("minutes", "Duración en minutos", true, 1, 40320), // 28 days max
		reasonOption("Razón del silencio", false),
	).WithUserPermissions(discord.PermissionModerate).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		InGuild()
}
