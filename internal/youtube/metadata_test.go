package youtube

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renditions(prefix string, exts ...string) []Rendition {
	out := make([]Rendition, len(exts))
	for i, ext := range exts {
		out[i] = Rendition{Ext: ext, URL: prefix + "/" + ext}
	}
	return out
}

func TestSelectTrack(t *testing.T) {
	tests := []struct {
		name     string
		meta     Metadata
		wantKind TrackKind
		wantURL  string
		wantErr  error
	}{
		{
			name: "manual preferred over automatic",
			meta: Metadata{
				Subtitles:         map[string][]Rendition{"en": renditions("manual", "vtt", "json3")},
				AutomaticCaptions: map[string][]Rendition{"en": renditions("auto", "json3")},
			},
			wantKind: TrackManual,
			wantURL:  "manual/json3",
		},
		{
			name: "automatic when no manual",
			meta: Metadata{
				Subtitles:         map[string][]Rendition{"fr": renditions("manual-fr", "json3")},
				AutomaticCaptions: map[string][]Rendition{"en": renditions("auto", "srv3", "json3")},
			},
			wantKind: TrackAutomatic,
			wantURL:  "auto/json3",
		},
		{
			name: "empty manual list falls back to automatic",
			meta: Metadata{
				Subtitles:         map[string][]Rendition{"en": {}},
				AutomaticCaptions: map[string][]Rendition{"en": renditions("auto", "json3")},
			},
			wantKind: TrackAutomatic,
			wantURL:  "auto/json3",
		},
		{
			name:    "nil maps",
			meta:    Metadata{},
			wantErr: ErrNoTranscript,
		},
		{
			name: "only other languages",
			meta: Metadata{
				AutomaticCaptions: map[string][]Rendition{"de": renditions("auto-de", "json3")},
			},
			wantErr: ErrNoTranscript,
		},
		{
			name: "manual track without json3 does not fall back",
			meta: Metadata{
				Subtitles:         map[string][]Rendition{"en": renditions("manual", "vtt", "srv3")},
				AutomaticCaptions: map[string][]Rendition{"en": renditions("auto", "json3")},
			},
			wantErr: ErrNoTextRendition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := tt.meta.SelectTrack("en")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "en", sel.Language)
			assert.Equal(t, tt.wantKind, sel.Kind)
			assert.Equal(t, tt.wantURL, sel.Rendition.URL)
		})
	}
}

func TestVideoInfoMetadata(t *testing.T) {
	video := &VideoInfo{
		ID: "dQw4w9WgXcQ",
		Captions: []CaptionTrack{
			{LanguageCode: "en", BaseURL: "https://www.youtube.com/api/timedtext?v=dQw4w9WgXcQ&lang=en"},
			{LanguageCode: "en", BaseURL: "https://www.youtube.com/api/timedtext?v=dQw4w9WgXcQ&lang=en&kind=asr", Automatic: true},
			{LanguageCode: "ja", BaseURL: "https://www.youtube.com/api/timedtext?v=dQw4w9WgXcQ&lang=ja"},
			{LanguageCode: "es", BaseURL: ""},
		},
	}

	meta := video.Metadata()
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	require.Contains(t, meta.Subtitles, "en")
	require.Contains(t, meta.AutomaticCaptions, "en")
	assert.Contains(t, meta.Subtitles, "ja")
	assert.NotContains(t, meta.Subtitles, "es")

	manual := meta.Subtitles["en"]
	require.Len(t, manual, len(captionFormats))
	assert.Equal(t, "json3", manual[0].Ext)

	u, err := url.Parse(manual[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "json3", u.Query().Get("fmt"))
	assert.Equal(t, "en", u.Query().Get("lang"))

	auto, err := url.Parse(meta.AutomaticCaptions["en"][0].URL)
	require.NoError(t, err)
	assert.Equal(t, "asr", auto.Query().Get("kind"))

	sel, err := meta.SelectTrack("en")
	require.NoError(t, err)
	assert.Equal(t, TrackManual, sel.Kind)
}

func TestParseYtDlpJSON(t *testing.T) {
	raw := []byte(`{
		"id": "dQw4w9WgXcQ",
		"title": "Never Gonna Give You Up",
		"uploader": "Rick Astley",
		"subtitles": null,
		"automatic_captions": {
			"en": [
				{"ext": "json3", "url": "https://example.com/en.json3", "name": "English"},
				{"ext": "vtt", "url": "https://example.com/en.vtt"}
			]
		},
		"formats": []
	}`)

	meta, err := parseYtDlpJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "Rick Astley", meta.Author)
	assert.Empty(t, meta.Subtitles)

	sel, err := meta.SelectTrack("en")
	require.NoError(t, err)
	assert.Equal(t, TrackAutomatic, sel.Kind)
	assert.Equal(t, "https://example.com/en.json3", sel.Rendition.URL)

	_, err = parseYtDlpJSON([]byte("not json"))
	assert.Error(t, err)
}
