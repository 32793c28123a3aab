// Package config provides configuration management for the dashboard.
// It loads environment variables (and an optional .env file) once and makes
// them available throughout the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot and the web API
type Config struct {
	// Discord
	BotToken            string
	DevGuildID          string
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string

	// Storage
	StorageDriver string
	DataDir       string
	SQLitePath    string
	MongoDBURL    string
	DBName        string

	// MQTT
	MQTTEnabled  bool
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port          string
	DashboardURL  string
	JWTSecret     string
	TokenTTL      time.Duration
	WSRequireAuth bool
	AllowedHosts  string
	RateLimit     int

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

var validDrivers = []string{"json", "sqlite", "mongo"}

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:            getEnv("botToken", ""),
		DevGuildID:          getEnv("devGuildId", ""),
		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordRedirectURI:  getEnv("DISCORD_REDIRECT_URI", "http://localhost:3000/auth/callback"),

		// Storage
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "json")),
		DataDir:       getEnv("DATA_DIR", "data"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/nova.db"),
		MongoDBURL:    getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:        getEnv("dbName", "DiscordNova"),

		// MQTT
		MQTTEnabled:  getBool("MQTT_ENABLED", false),
		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port:          getEnv("PORT", "3000"),
		DashboardURL:  getEnv("DASHBOARD_URL", "http://localhost:5173"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		TokenTTL:      getDuration("TOKEN_TTL", 7*24*time.Hour),
		WSRequireAuth: getBool("WS_REQUIRE_AUTH", true),
		AllowedHosts:  getEnv("ALLOWED_HOSTS", ""),
		RateLimit:     getInt("RATE_LIMIT", 100),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),
	}
	cfgErr = cfg.validate()
}

func (c *Config) validate() error {
	valid := false
	for _, d := range validDrivers {
		if c.StorageDriver == d {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("STORAGE_DRIVER inválido %q (usa %s)", c.StorageDriver, strings.Join(validDrivers, ", "))
	}
	if c.IsProd() && c.JWTSecret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET debe configurarse en producción")
	}
	return nil
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
