package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/paylist/pkg/adapters/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paylist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefault_UsesConnectionDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, websocket.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, websocket.DefaultAppID, cfg.AppID)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
endpoint: ws://localhost:9000/ws
app_id: "4242"
log_level: debug
correlate_requests: true
rate_limit:
  rps: 2
redis:
  addr: localhost:6379
  ttl: 5m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:9000/ws", cfg.Endpoint)
	assert.Equal(t, "4242", cfg.AppID)
	assert.Equal(t, "EN", cfg.Language, "unset keys keep their default")
	assert.True(t, cfg.CorrelateRequests)
	assert.Equal(t, 2.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "endpoint: [",
		"http scheme":  "endpoint: https://example.com",
		"bad level":    "log_level: chatty",
		"negative rps": "rate_limit:\n  rps: -1",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
