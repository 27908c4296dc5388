package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Providers, "openai")
	assert.Contains(t, cfg.Providers["openai"].Models, "gpt-4o-mini")
}

func TestLoadConfig_VendorCredentialNames(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_KEY", "sk-ant")
	t.Setenv("GEMINI_KEY", " gem-key ")
	t.Setenv("MISTRAL_KEY", "")
	t.Setenv("MISTRAL_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-openai", cfg.Providers["openai"].APIKey)
	assert.Equal(t, "sk-ant", cfg.Providers["anthropic"].APIKey)
	assert.Equal(t, "gem-key", cfg.Providers["google"].APIKey)
	assert.Empty(t, cfg.Providers["mistral"].APIKey)
}

func TestLoadConfig_APIKeyResolution(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")
	t.Setenv("OPENAI_API_KEY", "")

	configContent := `
server:
  port: "7070"
providers:
  openai:
    api_key: "ENV:TEST_API_KEY"
    base_url: "http://localhost:9999/v1"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "sk-test-12345", cfg.Providers["openai"].APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Providers["openai"].BaseURL)
}
