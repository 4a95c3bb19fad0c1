package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantDebug bool
	}{
		{"1. development debug", "development", "debug", true},
		{"2. production info", "production", "info", false},
		{"3. unknown level falls back to info", "development", "loud", false},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				logger := NewLogger(tt.env, tt.level, "stderr")
				require.NotNil(t, logger)
				require.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
				require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
			},
		)
	}
}
