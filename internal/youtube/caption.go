package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// json3 caption payload as served by the timedtext endpoint.
type json3Transcript struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segments   []json3Seg `json:"segs"`
}

type json3Seg struct {
	Text string `json:"utf8"`
}

// FetchCaptionByURL downloads a json3 rendition and parses it.
func (f *Fetcher) FetchCaptionByURL(ctx context.Context, url string) (*CaptionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// one extra byte detects an oversized payload
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("caption payload exceeds %d bytes", f.maxBytes)
	}

	return parseTranscriptJSON3(body)
}

// parseTranscriptJSON3 keeps the first segment of every event that has one.
// Events without segments are window or style markers and carry no text.
func parseTranscriptJSON3(data []byte) (*CaptionResult, error) {
	var transcript json3Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("json3 parse failed: %w", err)
	}

	entries := make([]CaptionEntry, 0, len(transcript.Events))
	for _, ev := range transcript.Events {
		if len(ev.Segments) == 0 {
			continue
		}
		entries = append(entries, CaptionEntry{
			StartTime: time.Duration(ev.StartMs) * time.Millisecond,
			Duration:  time.Duration(ev.DurationMs) * time.Millisecond,
			Text:      ev.Segments[0].Text,
		})
	}

	return &CaptionResult{
		Entries: entries,
	}, nil
}
