package utils

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/config"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/errors"
	"github.com/PancyStudios/DiscordNova/pkg/sysinfo"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /stats command
func createStatsCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del servidor y del bot",
		"utils",
		statsHandler(svc),
	).WithUserPermissions(discord.PermissionModerate).
		InGuild()
}

func statsHandler(svc *service.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		errors.Go(func() {
			c, cancel := ctx.Context()
			defer cancel()

			stats := svc.DashboardStats(c, ctx.Interaction.GuildID)
			dbStatus, _ := svc.Store().Status()

			ctx.ReplyEmbed(statsEmbed(stats, dbStatus, ctx.Client.GuildCount()))
		})
		return nil
	}
}

func statsEmbed(stats service.DashboardStats, dbStatus string, guilds int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📊 Estadísticas",
		Color: respond.ColorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👥 Miembros", Value: fmt.Sprintf("%d", stats.TotalMembers), Inline: true},
			{Name: "🎫 Tickets activos", Value: fmt.Sprintf("%d", stats.ActiveTickets), Inline: true},
			{Name: "⚠️ Advertencias (24h)", Value: fmt.Sprintf("%d", stats.Warnings24h), Inline: true},
			{Name: "⏱ Uptime", Value: stats.Uptime, Inline: true},
			{Name: "🏠 Servidores", Value: fmt.Sprintf("%d", guilds), Inline: true},
			{Name: "🗄 Base de datos", Value: dbStatus, Inline: true},
			{Name: "🖥 Uso de RAM", Value: fmt.Sprintf("%.2f MB", float64(sysinfo.Memory())/1024/1024), Inline: true},
			{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "🤖 Versión", Value: config.Version, Inline: true},
		},
		Footer:    respond.Footer(),
		Timestamp: respond.Now(),
	}
}
