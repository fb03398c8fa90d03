package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "janani.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, "http://localhost:8000", cfg.Guidance.BaseURL)
	assert.Equal(t, 30, cfg.Guidance.Timeout)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 6 * * 0", cfg.Scheduler.Spec)
	assert.Equal(t, 60, cfg.Scheduler.SweepRPM)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("JANANI_SERVER_PORT", "9090")
	t.Setenv("JANANI_GUIDANCE_BASE_URL", "http://guidance.internal:8000")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://guidance.internal:8000", cfg.Guidance.BaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "janani.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  port: 3000
scheduler:
  enabled: false
`), 0644))

	cfg, err := Load(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JANANI_SERVER_PORT", "-1")

	_, err := Load("", t.TempDir())
	assert.Error(t, err)
}
