package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("NA_TEST_KEY", "sk-abc")
	out := expandEnv("key: ${NA_TEST_KEY}\nmodel: ${NA_TEST_MISSING:glm-4}\nraw: ${NA_TEST_UNSET}")
	assert.Contains(t, out, "key: sk-abc")
	assert.Contains(t, out, "model: glm-4")
	assert.Contains(t, out, "raw: ${NA_TEST_UNSET}")
}

func TestLoadFromAppliesProviderDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: sk-test
      model: gpt-4o-mini
      top_p: 0.9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	openai := cfg.LLM.Providers["openai"]
	assert.Equal(t, "sk-test", openai.APIKey)
	assert.Equal(t, "gpt-4o-mini", openai.Model)
	assert.Equal(t, "https://api.openai.com/v1", openai.BaseURL)
	require.NotNil(t, openai.TopP)
	assert.InDelta(t, 0.9, *openai.TopP, 1e-9)
	assert.Nil(t, openai.FrequencyPenalty)

	ollama := cfg.LLM.Providers["ollama"]
	assert.Equal(t, "http://localhost:11434", ollama.BaseURL)
	assert.Equal(t, 120*time.Second, ollama.Timeout)
	assert.Equal(t, 2000, ollama.MaxTokens)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "X-Session-ID", cfg.Session.Header)
}

func TestLoadFromWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.DefaultProvider)
	assert.Len(t, cfg.LLM.Providers, 8)
	assert.Equal(t, "glm-4", cfg.LLM.Providers["zhipu"].Model)
	assert.Equal(t, 8000, cfg.Server.HTTP.Port)
}

func TestDefaultLLMConfig(t *testing.T) {
	cfg := DefaultLLMConfig()
	assert.Equal(t, "ollama", cfg.DefaultProvider)
	assert.Equal(t, "https://api.anthropic.com", cfg.Providers["claude"].BaseURL)
	assert.InDelta(t, 0.7, cfg.Providers["grok"].Temperature, 1e-9)
}
