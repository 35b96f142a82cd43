package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.API.RequestTimeout)
	assert.False(t, cfg.Storage.UseInMemory)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api:
  base_url: https://chat.example.com
  request_timeout: 30s
storage:
  path: /tmp/creds.json
  use_in_memory: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, "/tmp/creds.json", cfg.Storage.Path)
	assert.True(t, cfg.Storage.UseInMemory)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CHATCLI_API_URL", "https://env.example.com")
	t.Setenv("CHATCLI_CREDENTIALS_PATH", "/tmp/env-creds.json")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/env-creds.json", cfg.Storage.Path)
}

func TestCredentialsPathExplicit(t *testing.T) {
	sc := StorageConfig{Path: "/tmp/x.json"}
	path, err := sc.CredentialsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.json", path)
}

func TestCredentialsPathDefault(t *testing.T) {
	path, err := StorageConfig{}.CredentialsPath()
	require.NoError(t, err)
	assert.Equal(t, "credentials.json", filepath.Base(path))
	assert.Contains(t, path, "chatcli")
}
