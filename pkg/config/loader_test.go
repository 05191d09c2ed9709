package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeResearchYAML(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "research.yaml"), []byte(content), 0644))
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSAPI_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")

	writeResearchYAML(t, dir, `
data_root: "`+dir+`/data"
integrations:
  news-api:
    category: government-media
    enabled: true
    base_url: https://api.example.com
    api_key_env: NEWSAPI_KEY
llm_providers:
  default:
    type: openai
    model: gpt-5
    api_key_env: OPENAI_API_KEY
research:
  max_tasks: 5
executor:
  concurrency: 4
`)

	ctx := context.Background()
	cfg, err := Initialize(ctx, dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotNil(t, cfg.IntegrationRegistry)
	assert.NotNil(t, cfg.LLMProviderRegistry)
	assert.True(t, cfg.IntegrationRegistry.Has("news-api"))
	assert.True(t, cfg.IntegrationRegistry.Has("web-search")) // built-in
	assert.True(t, cfg.LLMProviderRegistry.Has("default"))

	// explicit override wins
	assert.Equal(t, 5, cfg.Research.MaxTasks)
	// unset fields fall back to built-in defaults
	assert.Equal(t, DefaultMaxRetriesPerTask, cfg.Research.MaxRetriesPerTask)
	assert.Equal(t, 4, cfg.Executor.Concurrency)

	stats := cfg.Stats()
	assert.Greater(t, stats.Integrations, 0)
	assert.Greater(t, stats.LLMProviders, 0)
}

func TestInitializeConfigNotFound(t *testing.T) {
	ctx := context.Background()
	_, err := Initialize(ctx, "/nonexistent/directory")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitializeInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeResearchYAML(t, dir, `{{{`)

	ctx := context.Background()
	_, err := Initialize(ctx, dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitializeMissingAPIKeyEnv(t *testing.T) {
	dir := t.TempDir()
	writeResearchYAML(t, dir, `
integrations:
  news-api:
    category: government-media
    enabled: true
    api_key_env: SOME_UNSET_ENV_VAR
`)

	ctx := context.Background()
	_, err := Initialize(ctx, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestInitializeDefaultDataRoot(t *testing.T) {
	dir := t.TempDir()
	writeResearchYAML(t, dir, `integrations: {}`)

	ctx := context.Background()
	cfg, err := Initialize(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DataRoot)
	assert.Equal(t, filepath.Join("data", "monitors", "configs"), filepath.Join("data", "monitors", "configs"))
	assert.Contains(t, cfg.Monitors.ConfigDir, "monitors/configs")
}
