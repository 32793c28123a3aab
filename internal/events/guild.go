package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient, svc *service.Service) {
	client.EventHandler.OnGuildCreate(onGuildCreate(svc))
	client.EventHandler.OnGuildUpdate(onGuildUpdate(svc))
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// onGuildCreate registers the guild. Discord also sends GuildCreate for every
// guild on connect; those are refreshed and only fresh joins get a welcome.
func onGuildCreate(svc *service.Service) discord.GuildCreateHandler {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.Unavailable {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, created, err := svc.RegisterServer(ctx, guildInfo(g.Guild))
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando servidor %s: %v", g.ID, err), "Guild")
			return
		}
		if created {
			logger.Info(fmt.Sprintf("➕ Servidor registrado: %s (ID: %s)", g.Name, g.ID), "Guild")
		}

		if !justJoined(g.JoinedAt, time.Now()) || g.SystemChannelID == "" || s == nil {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed()); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	}
}

// onGuildUpdate refreshes name, icon and owner.
func onGuildUpdate(svc *service.Service) discord.GuildUpdateHandler {
	return func(s *discordgo.Session, g *discordgo.GuildUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, _, err := svc.RegisterServer(ctx, guildInfo(g.Guild)); err != nil {
			logger.Error(fmt.Sprintf("Error actualizando servidor %s: %v", g.ID, err), "Guild")
		}
	}
}

// onGuildDelete is called when the bot is removed from a server. Its data is
// kept for the audit trail.
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible temporalmente", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}

func guildInfo(g *discordgo.Guild) service.ServerInfo {
	return service.ServerInfo{
		ID:        g.ID,
		Name:      g.Name,
		Icon:      g.Icon,
		OwnerID:   g.OwnerID,
		BotJoined: true,
	}
}

func justJoined(joinedAt, now time.Time) bool {
	return !joinedAt.IsZero() && joinedAt.After(now.Add(-10*time.Second))
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🎉",
		Description: "Hola, soy **DiscordNova**. Usa `/setup` para enlazar el panel y `/help` para ver mis comandos.",
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⚠️ Advertencias", Value: "Usa `/warn` y `/warnings`", Inline: true},
			{Name: "🎫 Tickets", Value: "Abre uno con `/ticket`", Inline: true},
			{Name: "❓ Ayuda", Value: "Usa `/help` para más información", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "💫 - DiscordNova"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
