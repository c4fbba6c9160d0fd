package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/metar-translator/internal/config"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// NewLogger builds the root slog logger from config: JSON for machine
// consumption, tint for humans. Every line carries a per-run identifier so
// overlapping batch runs can be told apart in aggregated logs.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With("run_id", uuid.NewString())
}

// parseLevel maps a config string to a slog level, defaulting to info on
// anything unrecognized.
func parseLevel(s string) slog.Level {
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
