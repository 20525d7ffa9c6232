package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CaptionEntry is one timed caption event.
type CaptionEntry struct {
	StartTime time.Duration `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Text      string        `json:"text"`
}

// EndTime returns when the entry stops being displayed.
func (e *CaptionEntry) EndTime() time.Duration {
	return e.StartTime + e.Duration
}

// CaptionResult is a downloaded caption track.
type CaptionResult struct {
	LanguageCode string         `json:"language_code"`
	Kind         TrackKind      `json:"kind"`
	Entries      []CaptionEntry `json:"entries"`
}

// Text flattens the entries into the transcript: entry texts joined by
// single spaces, surrounding whitespace trimmed.
func (r *CaptionResult) Text() string {
	parts := make([]string, len(r.Entries))
	for i, entry := range r.Entries {
		parts[i] = entry.Text
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// FormatAsText is Text, for symmetry with the other formatters.
func (r *CaptionResult) FormatAsText() string {
	return r.Text()
}

// FormatAsJSON renders the entries as indented JSON.
func (r *CaptionResult) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatAsSRT renders the entries as SubRip.
func (r *CaptionResult) FormatAsSRT() string {
	return r.formatCues("", formatSRTTime)
}

// FormatAsVTT renders the entries as WebVTT.
func (r *CaptionResult) FormatAsVTT() string {
	return r.formatCues("WEBVTT\n\n", formatVTTTime)
}

func (r *CaptionResult) formatCues(header string, stamp func(time.Duration) string) string {
	var sb strings.Builder
	sb.WriteString(header)
	n := 0
	for _, entry := range r.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", n, stamp(entry.StartTime), stamp(entry.EndTime()), text)
	}
	return strings.TrimSpace(sb.String())
}

// formatSRTTime renders HH:MM:SS,mmm
func formatSRTTime(d time.Duration) string {
	h, m, s, ms := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// formatVTTTime renders HH:MM:SS.mmm
func formatVTTTime(d time.Duration) string {
	h, m, s, ms := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitDuration(d time.Duration) (h, m, s, ms int) {
	return int(d.Hours()), int(d.Minutes()) % 60, int(d.Seconds()) % 60, int(d.Milliseconds()) % 1000
}
