package tickets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/DiscordNova/internal/commands/respond"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createTicketCommand creates the /ticket command
func createTicketCommand(svc *service.Service) *discord.Command {
	return discord.NewCommand(
		"ticket",
		"Crea un nuevo ticket de soporte",
		"tickets",
		ticketHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "category",
			Description:  "Categoría del ticket",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "subject",
			Description: "Asunto del ticket",
			Required:    true,
			MaxLength:   200,
		},
	).WithAutoComplete(categoryAutocomplete(svc)).
		InGuild()
}

func ticketHandler(svc *service.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		c, cancel := ctx.Context()
		defer cancel()

		guildID := ctx.Interaction.GuildID
		name := ctx.GetStringOption("category")

		category, err := svc.ResolveCategory(c, guildID, name)
		if errors.Is(err, service.ErrNotFound) {
			names := categoryNames(svc.ListTicketCategories(c, guildID))
			return ctx.ReplyEphemeral(fmt.Sprintf("❌ Categoría \"%s\" no encontrada. Categorías disponibles: %s", name, names))
		}
		if err != nil {
			return respond.DomainError(ctx, "CMD-Ticket", err)
		}

		ticket, err := svc.CreateTicket(c, service.TicketInput{
			ServerID:   guildID,
			UserID:     ctx.User().ID,
			CategoryID: category.ID,
			ChannelID:  models.StringPtr(ctx.Interaction.ChannelID),
			Subject:    ctx.GetStringOption("subject"),
		})
		if err != nil {
			return respond.DomainError(ctx, "CMD-Ticket", err)
		}

		return ctx.ReplyWithComponents(ticketEmbed(ticket, category), ticketButtons(ticket.ID))
	}
}

func categoryNames(categories []models.TicketCategory) string {
	if len(categories) == 0 {
		return "ninguna"
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// categoryAutocomplete suggests active categories whose name contains what
// the user typed.
func categoryAutocomplete(svc *service.Service) discord.AutoCompleteFunc {
	return func(ctx *discord.CommandContext) {
		c, cancel := ctx.Context()
		defer cancel()

		typed := ""
		if opt := ctx.FocusedOption(); opt != nil {
			typed = opt.StringValue()
		}
		ctx.RespondChoices(categoryChoices(svc.ListTicketCategories(c, ctx.Interaction.GuildID), typed))
	}
}

func categoryChoices(categories []models.TicketCategory, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(categories))
	for _, c := range categories {
		if typed != "" && !strings.Contains(strings.ToLower(c.Name), typed) {
			continue
		}
		label := c.Name
		if emoji := models.Deref(c.Emoji); emoji != "" {
			label = emoji + " " + c.Name
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label, Value: c.Name})
	}
	return choices
}

// parseColor reads a #RRGGBB category color, falling back to blurple.
func parseColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return respond.ColorBlurple
	}
	return int(v)
}

func ticketEmbed(t models.Ticket, category models.TicketCategory) *discordgo.MessageEmbed {
	label := strings.TrimSpace(models.Deref(category.Emoji) + " " + category.Name)
	return &discordgo.MessageEmbed{
		Title: "🎫 Ticket creado",
		Color: parseColor(category.Color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ticket", Value: fmt.Sprintf("#%d", t.ID), Inline: true},
			{Name: "Categoría", Value: label, Inline: true},
			{Name: "Asunto", Value: t.Subject},
			{Name: "Estado", Value: "🟡 Abierto", Inline: true},
		},
		Footer:    respond.Footer(),
		Timestamp: respond.Now(),
	}
}

func ticketButtons(ticketID int64) discordgo.ActionsRow {
	id := strconv.FormatInt(ticketID, 10)
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Reclamar",
			Style:    discordgo.PrimaryButton,
			CustomID: ClaimPrefix + id,
			Emoji:    &discordgo.ComponentEmoji{Name: "✋"},
		},
		discordgo.Button{
			Label:    "Cerrar",
			Style:    discordgo.DangerButton,
			CustomID: ClosePrefix + id,
			Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
		},
	}}
}
