// Package main is a terminal viewer for the dashboard event stream. It
// connects to /ws, prints every event and refreshes the server stats after
// each (re)connect.
//
// Usage:
//
//	go run ./cmd/nova-tail --url http://localhost:3000 --token <jwt> --server <id>
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PancyStudios/DiscordNova/internal/service"
	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/PancyStudios/DiscordNova/pkg/realtime"
	"github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
)

func main() {
	baseURL := flag.StringP("url", "u", "http://localhost:3000", "Dashboard API base URL")
	token := flag.StringP("token", "t", os.Getenv("NOVA_TOKEN"), "Bearer token (defaults to $NOVA_TOKEN)")
	serverID := flag.StringP("server", "s", "", "Only show events of this server")
	flag.Parse()

	log := logger.Init("", "", logger.WithDir(os.TempDir()))
	defer log.Close()

	wsURL, err := websocketURL(*baseURL)
	if err != nil {
		logger.Critical(err.Error(), "Tail")
		os.Exit(1)
	}

	header := http.Header{}
	if *token != "" {
		header.Set("Authorization", "Bearer "+*token)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := realtime.NewClient(wsURL, header)
	client.OnConnect = func(ctx context.Context) {
		if *serverID == "" {
			return
		}
		stats, err := fetchStats(ctx, *baseURL, *token, *serverID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudieron obtener las estadísticas: %v", err), "Tail")
			return
		}
		logger.Info(fmt.Sprintf("Miembros: %d | Tickets activos: %d | Advertencias 24h: %d | Uptime: %s",
			stats.TotalMembers, stats.ActiveTickets, stats.Warnings24h, stats.Uptime), "Tail")
	}
	client.OnEvent = func(ev realtime.Event) {
		if *serverID != "" && realtime.ServerOf(ev) != *serverID {
			return
		}
		data, _ := json.Marshal(ev)
		fmt.Printf("%s %-16s %s\n", time.Now().Format("15:04:05"), ev.Type(), data)
	}

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error(err.Error(), "Tail")
		os.Exit(1)
	}
}

// websocketURL turns the API base URL into the /ws endpoint.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return "", fmt.Errorf("URL inválida %q: %w", base, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return u.String(), nil
}

func fetchStats(ctx context.Context, base, token, serverID string) (service.DashboardStats, error) {
	var stats service.DashboardStats

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimSuffix(base, "/")+"/api/dashboard/stats/"+url.PathEscape(serverID), nil)
	if err != nil {
		return stats, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stats, fmt.Errorf("status %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&stats)
	return stats, err
}
