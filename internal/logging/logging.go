// Package logging configures the structured loggers used by the CLI and
// the daemon.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Component names.
const (
	ComponentCLI      = "cli"
	ComponentDaemon   = "daemon"
	ComponentAlerts   = "alerts"
	ComponentStore    = "store"
	ComponentNotifier = "notifier"
)

// Common attribute keys.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldBudgetID  = "budget_id"
	FieldCount     = "count"
	FieldDuration  = "duration"
)

// Logger is a slog.Logger tagged with a component name.
type Logger struct {
	*slog.Logger
	component string
}

// Config selects the handler.
type Config struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer // defaults to os.Stderr
	Component string
}

// DefaultConfig logs text at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentCLI,
	}
}

// New builds a logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	base := slog.New(handler)
	if cfg.Component != "" {
		base = base.With(FieldComponent, cfg.Component)
	}
	return &Logger{Logger: base, component: cfg.Component}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithComponent returns a child logger tagged with another component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs l as the process-wide slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
