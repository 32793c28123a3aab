// Package respond holds the reply helpers shared by the slash commands.
package respond

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	ColorBlurple = 0x5865F2
	ColorGreen   = 0x57F287
	ColorYellow  = 0xFEE75C
	ColorRed     = 0xED4245
)

// Footer is the footer shared by every embed.
func Footer() *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: "💫 - DiscordNova"}
}

// Now formats the embed timestamp.
func Now() string {
	return time.Now().Format(time.RFC3339)
}

// Mention renders a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ErrorMessage turns a service error into the text shown to the caller.
func ErrorMessage(err error) string {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("`%s`: %s", k, verr.Fields[k]))
		}
		return "❌ Datos inválidos: " + strings.Join(parts, ", ")
	case errors.Is(err, service.ErrNotFound):
		return "❌ No se encontró el elemento solicitado."
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUnauthorized):
		return "❌ No tienes permisos para hacer esto."
	default:
		return "❌ Ocurrió un error inesperado."
	}
}

// DomainError answers the interaction with an ephemeral error. Unexpected
// errors are logged with the command name.
func DomainError(ctx *discord.CommandContext, source string, err error) error {
	logUnexpected(source, err)
	return ctx.ReplyError(ErrorMessage(err))
}

// DeferredError is DomainError for interactions acknowledged with Defer: the
// placeholder response is replaced by the error text.
func DeferredError(ctx *discord.CommandContext, source string, err error) error {
	logUnexpected(source, err)
	return ctx.EditReply(ErrorMessage(err))
}

func logUnexpected(source string, err error) {
	if !errors.Is(err, service.ErrValidation) && !errors.Is(err, service.ErrNotFound) {
		logger.Error(fmt.Sprintf("%v", err), source)
	}
}
