// Package components renders the HTML pages served by the web UI.
package components

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"

	"github.com/winnerumukoro/youtube-summarizer/internal/models"
	"github.com/winnerumukoro/youtube-summarizer/internal/summarizer"
	"github.com/winnerumukoro/youtube-summarizer/internal/version"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// HomeView is the data behind the home page.
type HomeView struct {
	URL         string
	Error       string
	VideoID     string
	EmbedURL    string
	WordCount   string
	ReadingTime int
	SummaryHTML template.HTML
	History     []TurnView
	Version     string
}

// TurnView is one rendered question and answer.
type TurnView struct {
	Question   string
	AnswerHTML template.HTML
}

// HasSummary reports whether the page shows results rather than the intro.
func (v HomeView) HasSummary() bool {
	return v.SummaryHTML != ""
}

// NewHomeView builds the page data for s. A nil or empty session yields the
// intro page.
func NewHomeView(s *models.Session, stats summarizer.Stats) HomeView {
	v := HomeView{Version: version.Version}
	if !s.HasSummary() {
		return v
	}

	v.VideoID = s.VideoID
	v.EmbedURL = youtube.EmbedURL(s.VideoID)
	v.WordCount = humanize.Comma(int64(stats.WordCount))
	v.ReadingTime = stats.ReadingTime
	v.SummaryHTML = RenderMarkdown(s.Summary)
	for _, turn := range s.History {
		v.History = append(v.History, TurnView{
			Question:   turn.Question,
			AnswerHTML: RenderMarkdown(turn.Answer),
		})
	}
	return v
}

// Home renders the home page.
func Home(v HomeView) templ.Component {
	if v.Version == "" {
		v.Version = version.Version
	}
	return templ.FromGoHTML(pages.Lookup("layout.html"), v)
}

// RenderMarkdown converts model output to HTML. Raw HTML in the source is
// dropped.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}
