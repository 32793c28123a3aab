package utils

import (
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/errors"
)

const helpText = "📖 **Ayuda de DiscordNova**\n\n" +
	"**Moderación:**\n" +
	"• `/warn <usuario> <razón>` - Advierte a un usuario\n" +
	"• `/warnings <usuario>` - Lista las advertencias activas\n" +
	"• `/removewarning <id>` - Revoca una advertencia\n" +
	"• `/kick <usuario> [razón]` - Expulsa a un usuario\n" +
	"• `/ban <usuario> [razón] [días]` - Banea a un usuario\n" +
	"• `/mute <usuario> <minutos> [razón]` - Silencia a un usuario\n\n" +
	"**Tickets:**\n" +
	"• `/ticket <categoría> <asunto>` - Abre un ticket\n" +
	"• `/setup` - Registra el servidor en el panel\n\n" +
	"**Utilidad:**\n" +
	"• `/stats` - Estadísticas del servidor y del bot"

// createHelpCommand creates the /help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.ReplyEphemeral(helpText)
	}()
	return nil
}
