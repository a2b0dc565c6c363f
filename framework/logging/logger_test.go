package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-scopes/framework/config"
	"github.com/km-arc/go-scopes/framework/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{config.LogConfig{Level: "info", Format: "json"}, zapcore.InfoLevel},
		{config.LogConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{config.LogConfig{Level: "error", Format: "console"}, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Level+"/"+tt.cfg.Format, func(t *testing.T) {
			l, err := logging.New(tt.cfg)
			require.NoError(t, err)

			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud", Format: "console"})
	assert.Error(t, err)

	assert.Panics(t, func() { logging.Must(config.LogConfig{Level: "loud"}) })
}
