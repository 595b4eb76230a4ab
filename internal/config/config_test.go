package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"base_url": "https://jobs.example.com",
		"timeout_seconds": 60,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com", cfg.BaseURL)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeConfig(t, `{not json`)
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CVB_API_URL", "https://env.example.com")
	t.Setenv("CVB_CREDENTIALS_FILE", "/tmp/session.json")

	cfg := &Config{}
	cfg.FromEnv()
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, "/tmp/session.json", cfg.CredentialsFile)

	// Explicit values win over the environment.
	cfg = &Config{BaseURL: "https://flag.example.com"}
	cfg.FromEnv()
	assert.Equal(t, "https://flag.example.com", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{BaseURL: "https://jobs.example.com"}
	require.NoError(t, cfg.Validate())

	cfg = &Config{}
	require.Error(t, cfg.Validate())

	cfg = &Config{BaseURL: "not a url"}
	require.Error(t, cfg.Validate())

	cfg = &Config{BaseURL: "https://jobs.example.com", TimeoutSeconds: 0}
	require.NoError(t, cfg.Validate())

	cfg = &Config{BaseURL: "https://jobs.example.com", TimeoutSeconds: 10000}
	require.Error(t, cfg.Validate())
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Config{}).Timeout())
	assert.Equal(t, 90*time.Second, (&Config{TimeoutSeconds: 90}).Timeout())
}
