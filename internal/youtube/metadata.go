package youtube

import (
	"context"
	"errors"
	"fmt"
)

// FormatJSON3 is the timed-caption JSON rendition the transcript is built from.
const FormatJSON3 = "json3"

var (
	// ErrNoTranscript means the video has neither a manual nor an automatic
	// track in the requested language. SelectTrack returns it as a
	// *NoTranscriptError naming the language.
	ErrNoTranscript = errors.New("no English transcript found for this video")

	// ErrNoTextRendition means a track exists but is not offered as json3.
	ErrNoTextRendition = errors.New("could not extract transcript text")
)

// NoTranscriptError reports the language that has no track. It matches
// ErrNoTranscript with errors.Is.
type NoTranscriptError struct {
	Language string
}

func (e *NoTranscriptError) Error() string {
	if e.Language == DefaultLanguage {
		return ErrNoTranscript.Error()
	}
	return fmt.Sprintf("no %q transcript found for this video", e.Language)
}

func (e *NoTranscriptError) Is(target error) bool {
	return target == ErrNoTranscript
}

// Rendition is one downloadable format of a subtitle track.
type Rendition struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// TrackKind tells manual subtitles apart from automatic captions.
type TrackKind string

const (
	TrackManual    TrackKind = "manual"
	TrackAutomatic TrackKind = "automatic"
)

// Metadata is the subset of video metadata needed to locate a transcript.
// Subtitles and AutomaticCaptions are keyed by language code. Either map
// may be nil.
type Metadata struct {
	ID                string
	Title             string
	Author            string
	Subtitles         map[string][]Rendition
	AutomaticCaptions map[string][]Rendition
}

// MetadataSource looks up video metadata by video ID.
type MetadataSource interface {
	GetMetadata(ctx context.Context, videoID string) (*Metadata, error)
}

// Selection is the rendition chosen for transcript extraction.
type Selection struct {
	Language  string
	Kind      TrackKind
	Rendition Rendition
}

// SelectTrack picks the json3 rendition for lang, preferring manual
// subtitles over automatic captions.
func (m *Metadata) SelectTrack(lang string) (*Selection, error) {
	renditions, kind := m.Subtitles[lang], TrackManual
	if len(renditions) == 0 {
		renditions, kind = m.AutomaticCaptions[lang], TrackAutomatic
	}
	if len(renditions) == 0 {
		return nil, &NoTranscriptError{Language: lang}
	}

	for _, r := range renditions {
		if r.Ext == FormatJSON3 {
			return &Selection{Language: lang, Kind: kind, Rendition: r}, nil
		}
	}
	return nil, ErrNoTextRendition
}
