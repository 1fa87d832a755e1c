package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		devMode  bool
		expected slog.Level
		wantErr  bool
	}{
		{"default prod", "default", false, slog.LevelInfo, false},
		{"default dev", "default", true, slog.LevelDebug, false},
		{"empty dev", "", true, slog.LevelDebug, false},
		{"debug", "debug", false, slog.LevelDebug, false},
		{"upper case info", "INFO", true, slog.LevelInfo, false},
		{"warning alias", "warning", false, slog.LevelWarn, false},
		{"warn", "warn", false, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetLogLevel(tt.level, tt.devMode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, logLevel.Level())
		})
	}
}

func TestSetLogLevel_Unknown(t *testing.T) {
	err := SetLogLevel("verbose", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}
