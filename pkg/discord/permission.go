package discord

import (
	"fmt"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// PermissionModerate is the capability required for moderation commands.
const PermissionModerate = discordgo.PermissionModerateMembers

// HasPermission reports whether a member may run something gated by
// required. The guild owner and administrators always pass; otherwise any
// bit of required is enough.
func HasPermission(required, granted int64, isOwner bool) bool {
	if required == 0 || isOwner {
		return true
	}
	if granted&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return granted&required != 0
}

// BotHasPermissions reports whether the bot's permissions in the channel
// cover every bit of required.
func BotHasPermissions(required, granted int64) bool {
	if required == 0 || granted&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return granted&required == required
}

// PermissionMiddleware checks the caller against required and answers with
// an ephemeral rejection when it fails.
func (c *ExtendedClient) PermissionMiddleware(ctx *CommandContext, required int64, denied string) bool {
	if required == 0 {
		return true
	}

	member := ctx.Member()
	if member == nil || member.User == nil {
		ctx.ReplyEphemeral(guildOnlyMessage)
		return false
	}

	if HasPermission(required, member.Permissions, c.isGuildOwner(ctx.Interaction.GuildID, member.User.ID)) {
		return true
	}

	if denied == "" {
		denied = "No tienes permisos para usar este comando."
	}
	ctx.ReplyEphemeral(denied)
	logger.Warn(fmt.Sprintf("Permiso denegado a %s en %s", member.User.ID, ctx.Interaction.GuildID), "Permissions")
	return false
}

func (c *ExtendedClient) isGuildOwner(guildID, userID string) bool {
	if guildID == "" || c.Session == nil {
		return false
	}
	if c.Session.State != nil {
		if g, err := c.Session.State.Guild(guildID); err == nil {
			return g.OwnerID == userID
		}
	}
	g, err := c.Session.Guild(guildID)
	if err != nil {
		return false
	}
	return g.OwnerID == userID
}
