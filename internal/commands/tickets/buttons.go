package tickets

import (
	"fmt"
	"strconv"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func parseTicketID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	return id, err == nil && id > 0
}

func claimButton(svc *service.Service) discord.ButtonRunFunc {
	return func(ctx *discord.CommandContext, arg string) error {
		id, ok := parseTicketID(arg)
		if !ok {
			return ctx.ReplyEphemeral("❌ Ticket inválido.")
		}

		c, cancel := ctx.Context()
		defer cancel()

		ticket, err := svc.ClaimTicket(c, id, ctx.User().ID)
		if err != nil {
			return respond.DomainError(ctx, "BTN-Claim", err)
		}

		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: "✅ Ticket reclamado",
			Color: respond.ColorGreen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Ticket", Value: fmt.Sprintf("#%d", ticket.ID), Inline: true},
				{Name: "Asignado a", Value: respond.Mention(ctx.User().ID), Inline: true},
			},
			Footer:    respond.Footer(),
			Timestamp: respond.Now(),
		})
	}
}

func closeButton(svc *service.Service) discord.ButtonRunFunc {
	return func(ctx *discord.CommandContext, arg string) error {
		id, ok := parseTicketID(arg)
		if !ok {
			return ctx.ReplyEphemeral("❌ Ticket inválido.")
		}

		c, cancel := ctx.Context()
		defer cancel()

		ticket, err := svc.CloseTicket(c, id)
		if err != nil {
			return respond.DomainError(ctx, "BTN-Close", err)
		}

		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: "❌ Ticket cerrado",
			Color: respond.ColorRed,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Ticket", Value: fmt.Sprintf("#%d", ticket.ID), Inline: true},
				{Name: "Cerrado por", Value: respond.Mention(ctx.User().ID), Inline: true},
			},
			Footer:    respond.Footer(),
			Timestamp: respond.Now(),
		})
	}
}
