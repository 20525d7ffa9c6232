package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// ytdlpOutput is the subset of `yt-dlp -J` output used here.
type ytdlpOutput struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Uploader          string                 `json:"uploader"`
	Subtitles         map[string][]Rendition `json:"subtitles"`
	AutomaticCaptions map[string][]Rendition `json:"automatic_captions"`
}

// YtDlpSource reads video metadata by running the yt-dlp binary.
type YtDlpSource struct {
	path string
}

// NewYtDlpSource creates a YtDlpSource. An empty path resolves "yt-dlp"
// from PATH on each call.
func NewYtDlpSource(path string) *YtDlpSource {
	return &YtDlpSource{path: path}
}

// GetMetadata implements MetadataSource.
func (s *YtDlpSource) GetMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	exe := s.path
	if exe == "" {
		p, err := exec.LookPath("yt-dlp")
		if err != nil {
			return nil, fmt.Errorf("yt-dlp not found: %w", err)
		}
		exe = p
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, "-J", "--skip-download", "--no-warnings", WatchURL(videoID))
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseYtDlpJSON(out)
}

func parseYtDlpJSON(data []byte) (*Metadata, error) {
	var y ytdlpOutput
	if err := json.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("unmarshal yt-dlp output: %w", err)
	}
	return &Metadata{
		ID:                y.ID,
		Title:             y.Title,
		Author:            y.Uploader,
		Subtitles:         y.Subtitles,
		AutomaticCaptions: y.AutomaticCaptions,
	}, nil
}
