// Package sysinfo reports process level figures shown on the dashboard.
package sysinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// StartTime returns when the current process was created. It falls back to
// fallback when the OS does not expose the value.
func StartTime(fallback time.Time) time.Time {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fallback
	}
	ms, err := p.CreateTime()
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.UnixMilli(ms)
}

// Memory returns the resident memory of the process in bytes, or the Go heap
// size when RSS is not available.
func Memory() uint64 {
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfo(); err == nil && info != nil {
			return info.RSS
		}
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

// FormatDuration formats a time.Duration into a human-readable string
func FormatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
