// Package main is the entry point for DiscordNova.
// It opens the store, starts the dashboard API and connects the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/api"
	"github.com/PancyStudios/DiscordNova/internal/auth"
	"github.com/PancyStudios/DiscordNova/internal/commands"
	"github.com/PancyStudios/DiscordNova/internal/events"
	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/config"
	"github.com/PancyStudios/DiscordNova/pkg/database"
	"github.com/PancyStudios/DiscordNova/pkg/discord"
	"github.com/PancyStudios/DiscordNova/pkg/errors"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/mqtt"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
	"github.com/PancyStudios/DiscordNova/pkg/sysinfo"
	"github.com/PancyStudios/DiscordNova/pkg/web"
)

// statsSource combines gateway member counts with the process uptime.
type statsSource struct {
	client  *discord.ExtendedClient
	started time.Time
}

func (s statsSource) MemberCount(serverID string) int {
	return s.client.MemberCount(serverID)
}

func (s statsSource) Uptime() time.Duration {
	return time.Since(s.started)
}

// healthSource feeds /api/status.
type healthSource struct {
	store  *database.Store
	client *discord.ExtendedClient
	hub    *realtime.Hub
}

func (h healthSource) DatabaseStatus() (string, bool) { return h.store.Status() }
func (h healthSource) BotOnline() bool                { return h.client.IsReady() }
func (h healthSource) Viewers() int                   { return h.hub.Count() }

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook, logger.WithDebug(!cfg.IsProd()))
	defer log.Close()

	logger.System("Iniciando DiscordNova "+config.Version+"...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Open storage
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := database.OpenBackend(ctx, database.BackendOptions{
		Driver:     cfg.StorageDriver,
		DataDir:    cfg.DataDir,
		SQLitePath: cfg.SQLitePath,
		MongoURL:   cfg.MongoDBURL,
		MongoDB:    cfg.DBName,
	})
	if err != nil {
		cancel()
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento: %v", err), "Main")
		os.Exit(1)
	}
	store, err := database.Open(ctx, backend)
	cancel()
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando colecciones: %v", err), "Main")
		os.Exit(1)
	}
	logger.Success(fmt.Sprintf("Almacenamiento %q listo", cfg.StorageDriver), "Main")

	// Realtime hub, optionally mirrored over MQTT
	hub := realtime.NewHub()
	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled {
		mqttClientID := "discordnova"
		if !cfg.IsProd() {
			mqttClientID = "discordnova_canary"
		}
		mqttClient = mqtt.NewMqttCommunicator(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		if err := realtime.NewBridge(hub, mqttClient).Start(); err != nil {
			logger.Warn(fmt.Sprintf("Puente MQTT no disponible: %v", err), "Main")
		}
	}

	// Initialize Discord client
	discordClient, err = discord.NewClient(cfg.BotToken, cfg.DevGuildID)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	svc := service.New(store, hub, service.WithStatsSource(statsSource{
		client:  discordClient,
		started: sysinfo.StartTime(time.Now()),
	}))

	commands.RegisterAll(discordClient, svc, commands.Options{DashboardURL: cfg.DashboardURL})
	events.RegisterAll(discordClient, svc)

	// Initialize web server
	webServer, err := web.NewServer(web.Options{
		WebhookURL:      cfg.LogsWebServerHook,
		AllowedHosts:    cfg.AllowedHosts,
		DashboardOrigin: cfg.DashboardURL,
		RateLimit:       cfg.RateLimit,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupStatusRoutes(webServer, healthSource{store: store, client: discordClient, hub: hub})
	api.New(
		svc,
		auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		auth.NewDiscordExchanger(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURI),
		hub,
		api.Options{WSRequireAuth: cfg.WSRequireAuth, DashboardURL: cfg.DashboardURL},
	).Register(webServer)
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if cfg.BotToken == "" {
		logger.Warn("botToken vacío, solo se inicia la API", "Main")
	} else if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("DiscordNova iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando DiscordNova...", "Main")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}
	if err := discordClient.Stop(); err != nil {
		logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
	hub.Close()
	if mqttClient != nil {
		mqttClient.Destroy()
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("Error cerrando el almacenamiento: %v", err), "Main")
	}
	errors.Get().Stop()
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
