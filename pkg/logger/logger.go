// Package logger provides the process-wide logger: colored console lines,
// JSON log files and Discord webhook forwarding.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m" // Red
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelDebug:
		return "\033[35m" // Magenta
	case LevelSystem:
		return "\033[34m" // Blue
	default:
		return "\033[0m" // Reset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000 // Red
	case LevelWarn:
		return 0xFFFF00 // Yellow
	case LevelSuccess:
		return 0x00FF00 // Green
	case LevelInfo:
		return 0x0000FF // Blue
	case LevelDebug:
		return 0x800080 // Purple
	case LevelSystem:
		return 0x808080 // Grey
	default:
		return 0xFFFFFF // White
	}
}

const colorReset = "\033[0m"

// Logger writes colored lines to stdout, structured lines to the log files
// and forwards entries to Discord webhooks.
type Logger struct {
	combined        *logrus.Logger
	errors          *logrus.Logger
	errorWebhookURL string
	logsWebhookURL  string
	debug           bool
	dir             string
	out             io.Writer
	files           []*os.File
	client          *http.Client
	mu              sync.Mutex
}

// Option configures a Logger.
type Option func(*Logger)

// WithDir sets the directory for combined.log and error.log.
func WithDir(dir string) Option {
	return func(l *Logger) { l.dir = dir }
}

// WithDebug enables Debug output.
func WithDebug(enabled bool) Option {
	return func(l *Logger) { l.debug = enabled }
}

// WithOutput replaces stdout as console sink.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.out = w }
}

// logger is the global logger instance
var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string, opts ...Option) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook, opts...)
	})
	return logger
}

// Get returns the global logger instance
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("", "")
	})
	return logger
}

// NewLogger creates a new Logger instance
func NewLogger(errorWebhook, logsWebhook string, opts ...Option) *Logger {
	l := &Logger{
		errorWebhookURL: errorWebhook,
		logsWebhookURL:  logsWebhook,
		dir:             filepath.Join(".", "logs"),
		debug:           true,
		out:             os.Stdout,
		client:          &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		fmt.Fprintf(l.out, "Error creating logs directory: %v\n", err)
	}
	l.combined = l.fileLogger("combined.log")
	l.errors = l.fileLogger("error.log")

	return l
}

func (l *Logger) fileLogger(name string) *logrus.Logger {
	fl := logrus.New()
	fl.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	fl.SetLevel(logrus.TraceLevel)
	fl.SetOutput(io.Discard)

	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(l.out, "Error opening %s: %v\n", name, err)
		return fl
	}
	l.files = append(l.files, f)
	fl.SetOutput(f)
	return fl
}

// logrusLevel maps our levels onto logrus for the file sinks.
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical:
		return logrus.FatalLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message string, prefix string) {
	if level == LevelDebug && !l.debug {
		return
	}

	l.mu.Lock()
	fmt.Fprintf(l.out, "[%s] [%s%s%s] [%s]: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.Color(),
		level.String(),
		colorReset,
		prefix,
		message,
	)
	l.mu.Unlock()

	// Entry.Log does not exit on FatalLevel.
	fields := logrus.Fields{"prefix": prefix, "level_name": level.String()}
	l.combined.WithFields(fields).Log(level.logrusLevel(), message)
	if level <= LevelError {
		l.errors.WithFields(fields).Log(level.logrusLevel(), message)
	}

	if l.webhookFor(level) != "" {
		go l.sendToWebhook(level, message, prefix)
	}
}

func (l *Logger) webhookFor(level LogLevel) string {
	if level <= LevelError {
		return l.errorWebhookURL
	}
	return l.logsWebhookURL
}

// sendToWebhook sends the log message to the appropriate Discord webhook
func (l *Logger) sendToWebhook(level LogLevel, message, prefix string) {
	webhookURL := l.webhookFor(level)
	if webhookURL == "" {
		return
	}

	payload := map[string]any{
		"embeds": []any{map[string]any{
			"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
			"description": fmt.Sprintf("```%s```", message),
			"color":       level.DiscordColor(),
			"timestamp":   time.Now().Format(time.RFC3339),
			"footer": map[string]string{
				"text": "💫 DiscordNova",
			},
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// Close closes the log files
func (l *Logger) Close() {
	for _, f := range l.files {
		f.Close()
	}
}

// Logging methods

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level functions for convenience

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
