package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantLevel zapcore.Level
	}{
		{
			name:      "Development Config",
			config:    Config{Level: "debug", Environment: "development", ServiceName: "minesweeper-bot"},
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:      "Production Config",
			config:    Config{Level: "info", Environment: "production", ServiceName: "api"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "Invalid Level Defaults to Info",
			config:    Config{Level: "loud", Environment: "development", ServiceName: "memory-bot"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name: "Rotating File Output",
			config: Config{
				Level:       "warn",
				Environment: "production",
				ServiceName: "api",
				FilePath:    filepath.Join(t.TempDir(), "app.log"),
			},
			wantLevel: zapcore.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			require.NoError(t, err)
			assert.True(t, l.zap.Core().Enabled(tt.wantLevel))
			assert.False(t, l.zap.Core().Enabled(tt.wantLevel-1))
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core))

	l.Info("score saved", zap.String("difficulty", "easy"))
	require.Equal(t, 1, observed.Len())
	entry := observed.TakeAll()[0]
	assert.Equal(t, "score saved", entry.Message)
	assert.Equal(t, "easy", entry.ContextMap()["difficulty"])

	l.Error("insert failed", errors.New("disk full"))
	entry = observed.TakeAll()[0]
	assert.Equal(t, "disk full", entry.ContextMap()["error"])

	l.Debug("ignored")
	assert.Equal(t, 0, observed.Len())

	l.Printf("OK   %s", "00001_create_scores.sql")
	entry = observed.TakeAll()[0]
	assert.Equal(t, "OK   00001_create_scores.sql", entry.Message)
}

func TestWith(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core))

	l.With(zap.String("bot", "memory")).Info("started")

	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "memory", observed.All()[0].ContextMap()["bot"])
}

func TestErrorDoesNotWriteIntoCallerFields(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core))

	backing := make([]zap.Field, 1, 2)
	backing[0] = zap.String("bot", "memory")
	spare := backing[:2]
	spare[1] = zap.String("marker", "untouched")

	l.Error("first", errors.New("boom"), backing...)
	assert.Equal(t, "untouched", spare[1].String)

	require.Equal(t, 1, observed.Len())
	fields := observed.All()[0].ContextMap()
	assert.Equal(t, "memory", fields["bot"])
	assert.Equal(t, "boom", fields["error"])
}
