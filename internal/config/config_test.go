package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.1", cfg.Ollama.Model)
	assert.Equal(t, "https://html.duckduckgo.com/html/", cfg.Search.BaseURL)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.MinDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Search.MaxDelay)
	// Cache stays disabled until an address is configured.
	assert.Empty(t, cfg.Cache.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  addr: ":9090"
ollama:
  model: mistral
search:
  maxResults: 5
  timeout: 30s
cache:
  addr: localhost:6379
  ttl: 5m
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mistral", cfg.Ollama.Model)
	// Unset file fields keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadBrokenFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  model: mistral\n"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(ollamaModelEnv, "llama3.2")
	t.Setenv(ollamaBaseURLEnv, "http://ollama:11434")
	t.Setenv(serverAddrEnv, ":7070")
	t.Setenv(searchTimeoutEnv, "45s")
	t.Setenv(searchMaxResultsEnv, "3")
	t.Setenv(redisAddrEnv, "redis:6379")
	t.Setenv(logLevelEnv, "warn")

	cfg := Load()

	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv(searchTimeoutEnv, "soon")
	t.Setenv(searchMaxResultsEnv, "-2")

	cfg := Load()
	assert.Equal(t, 15*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 10, cfg.Search.MaxResults)
}
