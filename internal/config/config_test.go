package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "3001"
  allowed_origins: ["http://localhost:3000"]
log:
  level: debug
  format: pretty
redis:
  addr: localhost:6379
  ttl: 30m
session:
  pin_digits: 6
  stats_interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 6, cfg.Session.PinDigits)
	assert.Equal(t, 30*time.Minute, TTLDuration(cfg.Redis.TTL, time.Minute))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.Port)
}

func TestTTLDurationFallback(t *testing.T) {
	assert.Equal(t, 5*time.Minute, TTLDuration("", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, TTLDuration("soon", 5*time.Minute))
	assert.Equal(t, 90*time.Second, TTLDuration("90s", 5*time.Minute))
}
