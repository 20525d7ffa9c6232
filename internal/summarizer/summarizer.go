// Package summarizer builds prompts from transcripts and sends them to a
// completion model.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/winnerumukoro/youtube-summarizer/internal/llm"
)

// Defaults for Options.
const (
	DefaultMaxTranscriptLength = 12000
	DefaultTemperature         = 0.3
	DefaultSummaryMaxTokens    = 1500
	DefaultAnswerMaxTokens     = 800
)

// Completer sends a prompt to a language model.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Options holds the generation parameters.
type Options struct {
	MaxTranscriptLength int
	Temperature         float64
	SummaryMaxTokens    int
	AnswerMaxTokens     int
	WordsPerMinute      int
}

// DefaultOptions returns the stock generation parameters.
func DefaultOptions() Options {
	return Options{
		MaxTranscriptLength: DefaultMaxTranscriptLength,
		Temperature:         DefaultTemperature,
		SummaryMaxTokens:    DefaultSummaryMaxTokens,
		AnswerMaxTokens:     DefaultAnswerMaxTokens,
		WordsPerMinute:      DefaultWordsPerMinute,
	}
}

// Summarizer produces summaries and answers for a transcript.
type Summarizer struct {
	completer Completer
	opts      Options
	logger    *slog.Logger
}

// New creates a Summarizer. A nil logger uses slog.Default.
func New(completer Completer, opts Options, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{completer: completer, opts: opts, logger: logger}
}

// Summarize asks the model for a structured summary of transcript.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	prompt := BuildSummaryPrompt(transcript, s.opts.MaxTranscriptLength)
	out, err := s.complete(ctx, "summary", prompt, s.opts.SummaryMaxTokens)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}

// Answer asks the model to answer question from transcript alone.
func (s *Summarizer) Answer(ctx context.Context, transcript, question string) (string, error) {
	prompt := BuildAnswerPrompt(transcript, question, s.opts.MaxTranscriptLength)
	out, err := s.complete(ctx, "answer", prompt, s.opts.AnswerMaxTokens)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return out, nil
}

// Stats computes transcript statistics at the configured reading speed.
func (s *Summarizer) Stats(transcript string) Stats {
	return ComputeStatsAt(transcript, s.opts.WordsPerMinute)
}

func (s *Summarizer) complete(ctx context.Context, kind, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	out, err := s.completer.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: s.opts.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		s.logger.Error("completion failed", "kind", kind, "error", err)
		return "", err
	}
	s.logger.Info("completion finished",
		"kind", kind,
		"prompt_chars", len(prompt),
		"duration", time.Since(start),
	)
	return out, nil
}
