package config

import (
	"testing"
	"time"

	"sheetchart/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "MAX_UPLOAD_MB", "REJECT_UNKNOWN_TYPES",
	"DATE_SERIAL_ENABLED", "DATE_SERIAL_MIN", "DATE_SERIAL_MAX", "DATE_LAYOUT",
	"EXTRACT_WORKERS", "SESSION_TTL", "SESSION_SWEEP_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxFileSizeBytes())
	assert.True(t, cfg.Upload.RejectUnknownTypes)
	assert.True(t, cfg.Normalize.DateSerial.Enabled)
	assert.Equal(t, 30000.0, cfg.Normalize.DateSerial.Min)
	assert.Equal(t, 60000.0, cfg.Normalize.DateSerial.Max)
	assert.Equal(t, "02-01-2006 15:04:05", cfg.Normalize.DateSerial.Layout)
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("REJECT_UNKNOWN_TYPES", "false")
	t.Setenv("DATE_SERIAL_ENABLED", "false")
	t.Setenv("DATE_SERIAL_MIN", "1000")
	t.Setenv("DATE_SERIAL_MAX", "2000")
	t.Setenv("EXTRACT_WORKERS", "2")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Upload.MaxFileSizeMB)
	assert.False(t, cfg.Upload.RejectUnknownTypes)
	assert.False(t, cfg.Normalize.DateSerial.Enabled)
	assert.Equal(t, 1000.0, cfg.Normalize.DateSerial.Min)
	assert.Equal(t, 2000.0, cfg.Normalize.DateSerial.Max)
	assert.Equal(t, 2, cfg.Extract.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"inverted date range", map[string]string{"DATE_SERIAL_MIN": "60000", "DATE_SERIAL_MAX": "30000"}},
		{"zero workers", map[string]string{"EXTRACT_WORKERS": "0"}},
		{"negative upload limit", map[string]string{"MAX_UPLOAD_MB": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
