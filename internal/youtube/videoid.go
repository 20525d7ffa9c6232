package youtube

import "regexp"

// videoIDPatterns are tried in order; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID returns the 11 character video ID found in rawURL.
// It recognises watch URLs (v=), embed URLs and youtu.be short links.
// Nothing is validated against YouTube; ok is false when no pattern matches.
func ExtractVideoID(rawURL string) (id string, ok bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// EmbedURL returns the iframe player URL for a video ID.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}
