package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  port: "9090"
  allowedOrigins:
    - https://learn.example.com
  trustedProxies:
    - 10.0.0.1
backend:
  baseUrl: https://learn.example.com/api/v1
  timeout: 5s
storage:
  driver: pgx
  host: db
firebase:
  enabled: true
  projectId: questpath
  credentialsFile: /etc/questpath/firebase.json
catalog:
  path: quests.yaml
logLevel: debug
`), 0o600))
	t.Setenv("APP_SERVER_HOST", "0.0.0.0")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://learn.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "https://learn.example.com/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "pgx", cfg.Storage.Driver)
	assert.Equal(t, "db", cfg.Storage.Host)
	assert.True(t, cfg.Firebase.Enabled)
	assert.Equal(t, "questpath", cfg.Firebase.ProjectID)
	assert.Equal(t, "quests.yaml", cfg.Catalog.Path)
	assert.Equal(t, 30, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Firebase.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}
