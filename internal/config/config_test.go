package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHEETWRIGHT_API_URL", "https://api.example.com/v1")
	t.Setenv("SHEETWRIGHT_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", cfg.APIURL)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 60*time.Second, cfg.ExecTimeout)
	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Empty(t, cfg.PolicyPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHEETWRIGHT_API_URL", "https://api.example.com/v1")
	t.Setenv("SHEETWRIGHT_API_KEY", "test-key")
	t.Setenv("SHEETWRIGHT_MODEL", "other-model")
	t.Setenv("SHEETWRIGHT_EXEC_TIMEOUT", "90s")
	t.Setenv("SHEETWRIGHT_INPUT_DIR", "/data/in")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "other-model", cfg.Model)
	assert.Equal(t, 90*time.Second, cfg.ExecTimeout)
	assert.Equal(t, "/data/in", cfg.InputDir)
}

func TestLoadMissingCredential(t *testing.T) {
	t.Setenv("SHEETWRIGHT_API_URL", "https://api.example.com/v1")
	t.Setenv("SHEETWRIGHT_API_KEY", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestLoadMissingEndpoint(t *testing.T) {
	t.Setenv("SHEETWRIGHT_API_URL", "")
	t.Setenv("SHEETWRIGHT_API_KEY", "test-key")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingEndpoint)
}
