package youtube

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

// captionFormats are the renditions YouTube's timedtext endpoint serves for
// every caption track, selected with the fmt query parameter.
var captionFormats = []string{"json3", "srv1", "srv2", "srv3", "ttml", "vtt"}

// Client reads video metadata from the YouTube player API.
type Client struct {
	client youtube.Client
}

// NewClient creates a Client. A nil httpClient uses the library default.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		client: youtube.Client{HTTPClient: httpClient},
	}
}

// VideoInfo is the video metadata reported by the player API.
type VideoInfo struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
	Captions []CaptionTrack
}

// CaptionTrack describes one caption track of a video.
type CaptionTrack struct {
	LanguageCode string
	Name         string
	BaseURL      string
	Automatic    bool
}

// GetVideo fetches video metadata for a watch URL or video ID.
func (c *Client) GetVideo(ctx context.Context, videoURL string) (*VideoInfo, error) {
	video, err := c.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	captions := make([]CaptionTrack, len(video.CaptionTracks))
	for i, track := range video.CaptionTracks {
		captions[i] = CaptionTrack{
			LanguageCode: track.LanguageCode,
			Name:         track.Name.SimpleText,
			BaseURL:      track.BaseURL,
			// speech recognition tracks carry kind "asr" and a vssId of "a.<lang>"
			Automatic: track.Kind == "asr" || strings.HasPrefix(track.VssID, "a."),
		}
	}

	return &VideoInfo{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
		Captions: captions,
	}, nil
}

// GetMetadata implements MetadataSource.
func (c *Client) GetMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	video, err := c.GetVideo(ctx, WatchURL(videoID))
	if err != nil {
		return nil, err
	}
	return video.Metadata(), nil
}

// Metadata groups the caption tracks into manual and automatic maps keyed
// by language code, each track offered in every timedtext format.
func (v *VideoInfo) Metadata() *Metadata {
	meta := &Metadata{
		ID:                v.ID,
		Title:             v.Title,
		Author:            v.Author,
		Subtitles:         make(map[string][]Rendition),
		AutomaticCaptions: make(map[string][]Rendition),
	}

	for _, track := range v.Captions {
		renditions := captionRenditions(track.BaseURL)
		if len(renditions) == 0 {
			continue
		}
		target := meta.Subtitles
		if track.Automatic {
			target = meta.AutomaticCaptions
		}
		// keep the first track per language, matching the player's ordering
		if _, exists := target[track.LanguageCode]; !exists {
			target[track.LanguageCode] = renditions
		}
	}
	return meta
}

// HasCaptions reports whether any caption track is available.
func (v *VideoInfo) HasCaptions() bool {
	return len(v.Captions) > 0
}

func captionRenditions(baseURL string) []Rendition {
	u, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		return nil
	}

	renditions := make([]Rendition, 0, len(captionFormats))
	for _, format := range captionFormats {
		q := u.Query()
		q.Set("fmt", format)
		withFormat := *u
		withFormat.RawQuery = q.Encode()
		renditions = append(renditions, Rendition{Ext: format, URL: withFormat.String()})
	}
	return renditions
}
