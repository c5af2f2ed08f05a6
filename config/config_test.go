package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/udpsocket/limits"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Address)
	assert.Equal(t, limits.DefaultRecvBuffer, cfg.Socket.RecvBuffer)
	assert.Equal(t, 10*time.Millisecond, cfg.Socket.PollInterval)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	data := []byte(`
log:
  level: debug
  format: json
metrics:
  address: 127.0.0.1:9100
socket:
  recv_buffer: 2048
  poll_interval: 25ms
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Address)
	assert.Equal(t, 2048, cfg.Socket.RecvBuffer)
	assert.Equal(t, 25*time.Millisecond, cfg.Socket.PollInterval)
}

func TestParseKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, limits.DefaultRecvBuffer, cfg.Socket.RecvBuffer)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "log: [unterminated"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"zero buffer", "socket:\n  recv_buffer: 0\n"},
		{"huge buffer", "socket:\n  recv_buffer: 10485760\n"},
		{"fast poll", "socket:\n  poll_interval: 1us\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "udpsocket.yaml")
	require.NoError(t, os.WriteFile(path, []byte("socket:\n  recv_buffer: 1500\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.Socket.RecvBuffer)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvMetricsAddr, ":9200")
	t.Setenv(EnvRecvBuffer, "4096")
	t.Setenv(EnvPollInterval, "50ms")

	cfg := Default()
	ApplyEnvironmentOverrides(cfg)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9200", cfg.Metrics.Address)
	assert.Equal(t, 4096, cfg.Socket.RecvBuffer)
	assert.Equal(t, 50*time.Millisecond, cfg.Socket.PollInterval)
}

func TestApplyEnvironmentOverridesIgnoresInvalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "chatty")
	t.Setenv(EnvLogFormat, "xml")
	t.Setenv(EnvRecvBuffer, "lots")
	t.Setenv(EnvPollInterval, "2h")

	cfg := Default()
	ApplyEnvironmentOverrides(cfg)

	assert.Equal(t, Default(), cfg)
}

func TestApplyEnvironmentOverridesOutOfRangeBuffer(t *testing.T) {
	t.Setenv(EnvRecvBuffer, "0")

	cfg := Default()
	ApplyEnvironmentOverrides(cfg)
	assert.Equal(t, limits.DefaultRecvBuffer, cfg.Socket.RecvBuffer)
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()

	require.NoError(t, configureLogger(logger, LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	require.NoError(t, configureLogger(logger, LogConfig{Level: "warn", Format: "text"}))
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	assert.Error(t, configureLogger(logger, LogConfig{Level: "nope", Format: "text"}))
	assert.Error(t, configureLogger(logger, LogConfig{Level: "info", Format: "xml"}))
}
