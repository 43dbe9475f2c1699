package configs

import (
	"log/slog"
	"strings"
)

// Logger configures the structured logger. Level is the minimum emitted
// level ("debug", "info", "warn", "error"); Format selects the handler
// encoding, "text" or "json".
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SlogLevel maps the configured level onto slog.Level, defaulting to info
// for anything unrecognized.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat normalizes the configured format; anything but "json" means
// the text handler.
func (c Logger) SlogFormat() string {
	if strings.ToLower(c.Format) == "json" {
		return "json"
	}
	return "text"
}
