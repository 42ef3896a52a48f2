package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odysseus-transfer-ledger/internal/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{"DebugLevel", "debug", slog.LevelDebug},
		{"InfoLevel", "info", slog.LevelInfo},
		{"WarnLevel", "warn", slog.LevelWarn},
		{"ErrorLevel", "error", slog.LevelError},
		{"UnknownFallsBackToInfo", "verbose", slog.LevelInfo},
		{"EmptyFallsBackToInfo", "", slog.LevelInfo},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{
				Logging: config.LoggingConfig{Level: tc.level},
			}

			log := NewLogger(cfg)
			require.NotNil(t, log)

			ctx := context.Background()
			assert.True(t, log.Enabled(ctx, tc.expected))
			if tc.expected > slog.LevelDebug {
				assert.False(t, log.Enabled(ctx, tc.expected-1),
					"levels below the configured one must be filtered")
			}
		})
	}
}
