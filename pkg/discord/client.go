// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/DiscordNova/pkg/errors"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		logger.Info(fmt.Sprintf(format, a...), "DiscordGo")
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	Buttons        *ButtonRouter
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	// DevGuildID receives the commands marked with AsDev.
	DevGuildID string
	mu         sync.RWMutex
	isReady    bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command, len(cc.commands))
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

// NewClient creates a new ExtendedClient. The session is not opened until
// Start.
func NewClient(token, devGuildID string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		Buttons:    NewButtonRouter(),
		DevGuildID: devGuildID,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// commandPath builds the key a command was stored under, including
// subcommand and group names.
func commandPath(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}
	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			return name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		return name + "." + opt.Name
	}
	return name
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer apperrors.RecoverMiddleware()()

	ctx := &CommandContext{Session: s, Interaction: i, Client: c}

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := c.Commands.Get(commandPath(i.ApplicationCommandData()))
		if ok && cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}

	case discordgo.InteractionMessageComponent:
		c.handleButton(ctx)

	case discordgo.InteractionApplicationCommand:
		c.handleCommand(ctx)
	}
}

func (c *ExtendedClient) handleCommand(ctx *CommandContext) {
	commandName := commandPath(ctx.Interaction.ApplicationCommandData())

	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		logger.Warn("Command not found: "+commandName, "Client")
		ctx.ReplyEphemeral("Comando desconocido.")
		return
	}

	if cmd.GuildOnly && ctx.Interaction.GuildID == "" {
		ctx.ReplyEphemeral(guildOnlyMessage)
		return
	}

	if !c.PermissionMiddleware(ctx, cmd.UserPermissions, cmd.DeniedMessage) {
		return
	}

	if ctx.Interaction.GuildID != "" && !BotHasPermissions(cmd.BotPermissions, ctx.Interaction.AppPermissions) {
		ctx.ReplyEphemeral("❌ Me faltan permisos en este servidor para ejecutar este comando.")
		return
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error executing command "+commandName+": "+err.Error(), "Client")
		ctx.ReplyError("Ocurrió un error al ejecutar el comando.")
	}
}

// Rejections sent when a component interaction cannot be dispatched.
const (
	unknownActionMessage = "Acción desconocida."
	guildOnlyMessage     = "Este comando solo puede usarse dentro de un servidor."
)

// routeButton finds the button for customID. It returns a rejection message
// instead when no button matches or the click came from outside a guild.
func (r *ButtonRouter) routeButton(customID, guildID string) (*Button, string, string) {
	button, arg, ok := r.Match(customID)
	if !ok {
		return nil, "", unknownActionMessage
	}
	if guildID == "" {
		return nil, "", guildOnlyMessage
	}
	return button, arg, ""
}

func (c *ExtendedClient) handleButton(ctx *CommandContext) {
	customID := ctx.Interaction.MessageComponentData().CustomID
	button, arg, rejection := c.Buttons.routeButton(customID, ctx.Interaction.GuildID)
	if rejection != "" {
		logger.Debug("Componente sin manejador: "+customID, "Client")
		ctx.ReplyEphemeral(rejection)
		return
	}

	if !c.PermissionMiddleware(ctx, button.UserPermissions, button.DeniedMessage) {
		return
	}

	if err := button.Run(ctx, arg); err != nil {
		logger.Error(fmt.Sprintf("Error en botón %s: %v", customID, err), "Client")
		ctx.ReplyError("Ocurrió un error al procesar la acción.")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// MemberCount returns the member count of a guild from the gateway state, or
// 0 when the bot does not see it.
func (c *ExtendedClient) MemberCount(guildID string) int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	guild, err := c.Session.State.Guild(guildID)
	if err != nil {
		return 0
	}
	return guild.MemberCount
}

// Uptime is the time since Start.
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// Button handles a message component whose custom id starts with Prefix.
type Button struct {
	Prefix          string
	UserPermissions int64
	DeniedMessage   string
	Run             ButtonRunFunc
}

// ButtonRunFunc receives the custom id with the prefix removed.
type ButtonRunFunc func(ctx *CommandContext, arg string) error

// ButtonRouter dispatches components by custom id prefix.
type ButtonRouter struct {
	mu      sync.RWMutex
	buttons []*Button
}

// NewButtonRouter creates an empty router.
func NewButtonRouter() *ButtonRouter {
	return &ButtonRouter{}
}

// Add registers a button handler.
func (r *ButtonRouter) Add(b *Button) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buttons = append(r.buttons, b)
}

// Match finds the handler with the longest matching prefix.
func (r *ButtonRouter) Match(customID string) (*Button, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Button
	for _, b := range r.buttons {
		if strings.HasPrefix(customID, b.Prefix) && (best == nil || len(b.Prefix) > len(best.Prefix)) {
			best = b
		}
	}
	if best == nil {
		return nil, "", false
	}
	return best, strings.TrimPrefix(customID, best.Prefix), true
}
