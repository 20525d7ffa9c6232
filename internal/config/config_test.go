package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, 12000, cfg.Transcript.MaxLength)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 1500, cfg.LLM.SummaryMaxTokens)
	assert.Equal(t, 800, cfg.LLM.AnswerMaxTokens)
	assert.Equal(t, 200, cfg.Transcript.WordsPerMinute)
	assert.Equal(t, "en", cfg.Transcript.Language)

	// the key is the only required value without a default
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")

	cfg.LLM.APIKey = "key"
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromReader(t *testing.T) {
	yml := `
port: "9000"
log_level: debug
llm:
  api_key: gsk_test
  model: llama-3.1-8b-instant
  timeout: 30s
transcript:
  source: ytdlp
  max_length: 500
session:
  store: memory
  ttl: 2h
`
	cfg, err := LoadFromReader(strings.NewReader(yml))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, SourceYtDlp, cfg.Transcript.Source)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)

	// unset keys keep their defaults
	assert.Equal(t, 1500, cfg.LLM.SummaryMaxTokens)

	opts := cfg.SummarizerOptions()
	assert.Equal(t, 500, opts.MaxTranscriptLength)
	assert.Equal(t, 800, opts.AnswerMaxTokens)
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("llm:\n  api_key: k\n  modle: typo\n"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "key"
	cfg.LogLevel = "loud"
	cfg.Transcript.Source = "browser"
	cfg.Transcript.MaxLength = 0
	cfg.Session.Store = "redis"
	cfg.LLM.Temperature = 3

	err := Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{"log_level", "transcript.source", "transcript.max_length", "session.store", "llm.temperature"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nllm:\n  api_key: from-file\n"), 0o644))

	t.Chdir(dir)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("MAX_TRANSCRIPT_LENGTH", "4000")
	t.Setenv("SESSION_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 4000, cfg.Transcript.MaxLength)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
}
