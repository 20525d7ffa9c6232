// Package config loads the server configuration from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/winnerumukoro/youtube-summarizer/internal/llm"
	"github.com/winnerumukoro/youtube-summarizer/internal/summarizer"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
)

// Video metadata sources.
const (
	SourceNative = "native"
	SourceYtDlp  = "ytdlp"
)

// Session stores.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config is the complete server configuration.
type Config struct {
	Port       string           `yaml:"port"`
	LogLevel   string           `yaml:"log_level"`
	LLM        LLMConfig        `yaml:"llm"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Session    SessionConfig    `yaml:"session"`
}

// LLMConfig configures the completion service.
type LLMConfig struct {
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	Temperature      float64       `yaml:"temperature"`
	SummaryMaxTokens int           `yaml:"summary_max_tokens"`
	AnswerMaxTokens  int           `yaml:"answer_max_tokens"`
	Timeout          time.Duration `yaml:"timeout"` // zero: transport default
}

// TranscriptConfig configures transcript retrieval and prompt sizing.
type TranscriptConfig struct {
	Language       string `yaml:"language"`
	Source         string `yaml:"source"`
	YtDlpPath      string `yaml:"ytdlp_path"`
	MaxLength      int    `yaml:"max_length"`
	WordsPerMinute int    `yaml:"words_per_minute"`
}

// SessionConfig configures per-browser session storage.
type SessionConfig struct {
	Store           string        `yaml:"store"`
	DBPath          string        `yaml:"db_path"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		LLM: LLMConfig{
			BaseURL:          llm.DefaultBaseURL,
			Model:            llm.DefaultModel,
			Temperature:      summarizer.DefaultTemperature,
			SummaryMaxTokens: summarizer.DefaultSummaryMaxTokens,
			AnswerMaxTokens:  summarizer.DefaultAnswerMaxTokens,
		},
		Transcript: TranscriptConfig{
			Language:       youtube.DefaultLanguage,
			Source:         SourceNative,
			MaxLength:      summarizer.DefaultMaxTranscriptLength,
			WordsPerMinute: summarizer.DefaultWordsPerMinute,
		},
		Session: SessionConfig{
			Store:           StoreSQLite,
			DBPath:          "data/sessions.db",
			TTL:             24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// Load builds the configuration with Read and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds the configuration without validating it: defaults, then the
// YAML file named by CONFIG_FILE (if set), then .env and environment
// variables.
func Read() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := cfg.decodeYAML(f); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromReader decodes YAML over the defaults and validates the result.
// Environment variables are not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decodeYAML(r); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = env.Str("PORT", c.Port)
	c.LogLevel = env.Str("LOG_LEVEL", c.LogLevel)

	c.LLM.APIKey = env.Str("GROQ_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = env.Str("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = env.Str("LLM_MODEL", c.LLM.Model)
	c.LLM.Temperature = env.Float("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.SummaryMaxTokens = env.Int("SUMMARY_MAX_TOKENS", c.LLM.SummaryMaxTokens)
	c.LLM.AnswerMaxTokens = env.Int("ANSWER_MAX_TOKENS", c.LLM.AnswerMaxTokens)
	c.LLM.Timeout = env.Duration("LLM_TIMEOUT", c.LLM.Timeout)

	c.Transcript.Language = env.Str("TRANSCRIPT_LANGUAGE", c.Transcript.Language)
	c.Transcript.Source = env.Str("VIDEO_SOURCE", c.Transcript.Source)
	c.Transcript.YtDlpPath = env.Str("YTDLP_PATH", c.Transcript.YtDlpPath)
	c.Transcript.MaxLength = env.Int("MAX_TRANSCRIPT_LENGTH", c.Transcript.MaxLength)
	c.Transcript.WordsPerMinute = env.Int("WORDS_PER_MINUTE", c.Transcript.WordsPerMinute)

	c.Session.Store = env.Str("SESSION_STORE", c.Session.Store)
	c.Session.DBPath = env.Str("SESSION_DB_PATH", c.Session.DBPath)
	c.Session.TTL = env.Duration("SESSION_TTL", c.Session.TTL)
	c.Session.CleanupInterval = env.Duration("SESSION_CLEANUP_INTERVAL", c.Session.CleanupInterval)
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is required (set GROQ_API_KEY)"))
	}
	if cfg.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature %.2f is out of range [0, 2]", cfg.LLM.Temperature))
	}
	if cfg.LLM.SummaryMaxTokens <= 0 {
		errs = append(errs, errors.New("llm.summary_max_tokens must be positive"))
	}
	if cfg.LLM.AnswerMaxTokens <= 0 {
		errs = append(errs, errors.New("llm.answer_max_tokens must be positive"))
	}

	if cfg.Transcript.Language == "" {
		errs = append(errs, errors.New("transcript.language is required"))
	}
	if cfg.Transcript.Source != SourceNative && cfg.Transcript.Source != SourceYtDlp {
		errs = append(errs, fmt.Errorf("transcript.source %q is invalid; valid values: %s, %s", cfg.Transcript.Source, SourceNative, SourceYtDlp))
	}
	if cfg.Transcript.MaxLength <= 0 {
		errs = append(errs, errors.New("transcript.max_length must be positive"))
	}
	if cfg.Transcript.WordsPerMinute <= 0 {
		errs = append(errs, errors.New("transcript.words_per_minute must be positive"))
	}

	switch cfg.Session.Store {
	case StoreMemory:
	case StoreSQLite:
		if cfg.Session.DBPath == "" {
			errs = append(errs, errors.New("session.db_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store %q is invalid; valid values: %s, %s", cfg.Session.Store, StoreSQLite, StoreMemory))
	}
	if cfg.Session.TTL < 0 || cfg.Session.CleanupInterval < 0 {
		errs = append(errs, errors.New("session.ttl and session.cleanup_interval must not be negative"))
	}

	return errors.Join(errs...)
}

// SummarizerOptions returns the generation parameters for the summarizer.
func (c *Config) SummarizerOptions() summarizer.Options {
	return summarizer.Options{
		MaxTranscriptLength: c.Transcript.MaxLength,
		Temperature:         c.LLM.Temperature,
		SummaryMaxTokens:    c.LLM.SummaryMaxTokens,
		AnswerMaxTokens:     c.LLM.AnswerMaxTokens,
		WordsPerMinute:      c.Transcript.WordsPerMinute,
	}
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
