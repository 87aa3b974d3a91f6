package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spesebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  allowed_user_id: 42
extractor:
  api_key: "sk-test"
storage:
  backend: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AllowedUserID)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Extractor.BaseURL)
	assert.Equal(t, 60, cfg.Extractor.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.False(t, cfg.Log.Development)
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  allowed_user_id: 42
extractor:
  api_key: "sk-test"
storage:
  backend: memory
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token")
}

func TestLoad_SheetsBackendNeedsCredentials(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  allowed_user_id: 42
extractor:
  api_key: "sk-test"
storage:
  backend: sheets
  spreadsheet_id: "sheet-id"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  allowed_user_id: 42
extractor:
  api_key: "sk-test"
storage:
  backend: postgres
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage.backend")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  allowed_user_id: 42
extractor:
  api_key: "sk-test"
storage:
  backend: memory
`)

	t.Setenv("SPESEBOT_METRICS_ADDRESS", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Metrics.Address)
}
