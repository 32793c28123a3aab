package service

import (
	"context"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/PancyStudios/DiscordNova/pkg/sysinfo"
)

// DashboardStats are the headline figures of a server.
type DashboardStats struct {
	TotalMembers  int    `json:"totalMembers"`
	ActiveTickets int    `json:"activeTickets"`
	Warnings24h   int    `json:"warnings24h"`
	Uptime        string `json:"uptime"`
}

// DashboardStats counts open tickets and the active warnings issued in the
// trailing 24 hours. A warning exactly 24h old is not counted.
func (s *Service) DashboardStats(ctx context.Context, serverID string) DashboardStats {
	since := s.now().Add(-24 * time.Hour)
	recent := s.store.Warnings.Filter(func(w models.Warning) bool {
		return w.ServerID == serverID && w.IsActive && w.CreatedAt.After(since)
	})

	stats := DashboardStats{
		ActiveTickets: len(s.ListActiveTickets(ctx, serverID)),
		Warnings24h:   len(recent),
		Uptime:        sysinfo.FormatDuration(0),
	}
	if s.stats != nil {
		stats.TotalMembers = s.stats.MemberCount(serverID)
		stats.Uptime = sysinfo.FormatDuration(s.stats.Uptime())
	}
	return stats
}
