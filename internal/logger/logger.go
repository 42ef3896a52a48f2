package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/odysseus-transfer-ledger/internal/config"
)

// NewLogger builds the JSON slog logger both binaries use. Source locations
// are only attached at debug level to keep production log lines compact.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	logger := slog.New(handler)

	logger.Info("logger initialized", "level", level)
	return logger
}

// parseLevel falls back to info on unknown values rather than failing startup.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
