// Package main provides a utility to sync Discord slash commands.
// It replaces the commands Discord knows about with the ones the bot defines.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	--list          List all registered commands (global and guild)
//	--clean         Remove all commands without registering new ones
//	--guild <id>    Target a specific guild instead of global commands
//	--sync          Sync commands (default)
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/DiscordNova/internal/commands"
	"github.com/PancyStudios/DiscordNova/pkg/config"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
	flag "github.com/spf13/pflag"
)

func main() {
	// Parse command line flags
	listCmd := flag.BoolP("list", "l", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.StringP("guild", "g", "", "Target a specific guild (leave empty for global)")
	syncCmd := flag.Bool("sync", false, "Sync commands (default)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, "")
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

	client, err := discord.NewClient(cfg.BotToken, cfg.DevGuildID)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer client.Session.Close()

	logger.Success("Conectado a Discord", "SyncCommands")

	// Command handlers are never invoked here, only their definitions are
	// needed.
	commands.RegisterAll(client, nil, commands.Options{DashboardURL: cfg.DashboardURL})

	appID := client.Session.State.User.ID

	switch {
	case *listCmd:
		err = listCommands(client.Session, appID, *guildID)
	case *cleanCmd:
		err = client.CommandHandler.UnregisterCommands(appID, *guildID)
	case *syncCmd:
		err = syncCommands(client, appID, *guildID)
	default:
		err = syncCommands(client, appID, *guildID)
	}
	if err != nil {
		logger.Error(fmt.Sprintf("La operación falló: %v", err), "SyncCommands")
		os.Exit(1)
	}

	logger.Success("Operación completada exitosamente", "SyncCommands")
}

// listCommands prints the commands Discord has registered for the scope.
func listCommands(s *discordgo.Session, appID, guildID string) error {
	scope := "globales"
	if guildID != "" {
		scope = "del servidor " + guildID
	}
	logger.Info("📋 Listando comandos "+scope+"...", "SyncCommands")

	cmds, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}

// syncCommands overwrites the scope with the current definitions. A guild
// receives the dev commands, the global scope the rest.
func syncCommands(client *discord.ExtendedClient, appID, guildID string) error {
	global, dev := client.CommandHandler.Definitions()
	defs := global
	if guildID != "" {
		defs = dev
	}

	logger.Info(fmt.Sprintf("🔄 Sincronizando %d comandos...", len(defs)), "SyncCommands")
	registered, err := client.Session.ApplicationCommandBulkOverwrite(appID, guildID, defs)
	if err != nil {
		return err
	}
	for _, cmd := range registered {
		logger.Debug("  /"+cmd.Name, "SyncCommands")
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados", len(registered)), "SyncCommands")
	return nil
}
