package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// DefaultLanguage is the subtitle language requested when none is configured.
const DefaultLanguage = "en"

// DefaultMaxPayloadBytes caps the size of a downloaded caption payload.
const DefaultMaxPayloadBytes = 10_000_000

// Fetcher turns a video ID into transcript text.
type Fetcher struct {
	source   MetadataSource
	http     *http.Client
	lang     string
	maxBytes int64
	logger   *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the client used to download caption payloads.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.http = c
		}
	}
}

// WithLanguage sets the subtitle language code.
func WithLanguage(lang string) FetcherOption {
	return func(f *Fetcher) {
		if lang != "" {
			f.lang = lang
		}
	}
}

// WithMaxPayloadBytes overrides DefaultMaxPayloadBytes.
func WithMaxPayloadBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher reading metadata from source.
func NewFetcher(source MetadataSource, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:   source,
		http:     http.DefaultClient,
		lang:     DefaultLanguage,
		maxBytes: DefaultMaxPayloadBytes,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// FetchCaptions selects the preferred track for videoID and downloads it.
// Every failure, including a panic inside the metadata source, comes back
// as an error; ErrNoTranscript and ErrNoTextRendition are returned as is.
func (f *Fetcher) FetchCaptions(ctx context.Context, videoID string) (result *CaptionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("error fetching transcript: %v", r)
		}
	}()

	meta, err := f.source.GetMetadata(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error fetching transcript: %w", err)
	}

	sel, err := meta.SelectTrack(f.lang)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("caption track selected",
		"video_id", videoID,
		"language", sel.Language,
		"kind", sel.Kind,
	)

	result, err = f.FetchCaptionByURL(ctx, sel.Rendition.URL)
	if err != nil {
		return nil, fmt.Errorf("error fetching transcript: %w", err)
	}
	result.LanguageCode = sel.Language
	result.Kind = sel.Kind
	return result, nil
}

// FetchTranscript returns the flattened transcript text for videoID.
func (f *Fetcher) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	result, err := f.FetchCaptions(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrNoTranscript) && !errors.Is(err, ErrNoTextRendition) {
			f.logger.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		}
		return "", err
	}
	return result.Text(), nil
}
