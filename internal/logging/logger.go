package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/vanshika/erdos/backend/internal/config"
)

// New builds a slog.Logger configured according to the provided logging config.
func New(cfg config.LoggingConfig) *slog.Logger {
	return NewWriter(os.Stdout, cfg)
}

// NewWriter is New with an explicit destination, for commands that keep stdout
// for their own output.
func NewWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	return slog.New(newHandler(w, cfg))
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	level := parseLevel(cfg.Level)

	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.IncludeCaller,
		})
	}

	if cfg.Colored {
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			ReportCaller:    cfg.IncludeCaller,
		})
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.IncludeCaller,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
