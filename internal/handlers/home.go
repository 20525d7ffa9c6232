package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/winnerumukoro/youtube-summarizer/internal/models"
	"github.com/winnerumukoro/youtube-summarizer/internal/storage"
	"github.com/winnerumukoro/youtube-summarizer/internal/summarizer"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
	"github.com/winnerumukoro/youtube-summarizer/web/components"
)

// SessionCookie names the cookie carrying the browser's session id.
const SessionCookie = "ytsum_session"

// User-facing messages.
const (
	MsgInvalidURL      = "Invalid YouTube URL. Please check and try again."
	MsgFetchFailed     = "Could not fetch transcript: "
	MsgServiceFailed   = "The AI service failed to respond. Please try again."
	MsgSessionNotFound = "Your session has expired. Please summarize the video again."
	MsgSessionChanged  = "The video changed while your question was being answered. Please ask again."
)

// TranscriptFetcher retrieves the transcript text of a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// Summarizer produces summaries, answers and stats for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	Answer(ctx context.Context, transcript, question string) (string, error)
	Stats(transcript string) summarizer.Stats
}

// SessionStore persists per-browser session state.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Replace(ctx context.Context, id, videoID, transcript, summary string) error
	AppendTurn(ctx context.Context, id string, generation int64, turn models.ChatTurn) error
	Delete(ctx context.Context, id string) error
}

// Handler serves the web UI and the JSON API.
type Handler struct {
	fetcher    TranscriptFetcher
	summarizer Summarizer
	store      SessionStore
	logger     *slog.Logger
}

// New creates a Handler.
func New(fetcher TranscriptFetcher, s Summarizer, store SessionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{fetcher: fetcher, summarizer: s, store: store, logger: logger}
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.POST("/summarize", h.Summarize)
	e.POST("/ask", h.Ask)
	e.POST("/reset", h.Reset)

	api := e.Group("/api")
	api.POST("/video-id", h.APIVideoID)
	api.POST("/transcript", h.APITranscript)
	api.POST("/summarize", h.APISummarize)
	api.POST("/answer", h.APIAnswer)
	api.POST("/stats", h.APIStats)

	e.GET("/health", Health)
}

// Home shows the intro steps, or the current session's results.
func (h *Handler) Home(c echo.Context) error {
	s, err := h.loadSession(c)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, components.Home(h.view(s)))
}

// Summarize fetches and summarizes the submitted video, replacing the
// session's video and clearing its chat history.
func (h *Handler) Summarize(c echo.Context) error {
	ctx := c.Request().Context()
	rawURL := strings.TrimSpace(c.FormValue("url"))
	if rawURL == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	videoID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return h.renderError(c, http.StatusBadRequest, rawURL, MsgInvalidURL)
	}

	transcript, err := h.fetcher.FetchTranscript(ctx, videoID)
	if err != nil {
		return h.renderError(c, fetchErrorStatus(err), rawURL, MsgFetchFailed+err.Error())
	}

	summary, err := h.summarizer.Summarize(ctx, transcript)
	if err != nil {
		h.logger.Error("summary failed", "video_id", videoID, "error", err)
		return h.renderError(c, http.StatusBadGateway, rawURL, MsgServiceFailed)
	}

	id := h.sessionID(c)
	if err := h.store.Replace(ctx, id, videoID, transcript, summary); err != nil {
		return err
	}
	h.logger.Info("video summarized", "video_id", videoID, "session", id)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Ask answers a question about the session's video and appends the turn to
// its chat history.
func (h *Handler) Ask(c echo.Context) error {
	ctx := c.Request().Context()
	question := strings.TrimSpace(c.FormValue("question"))

	s, err := h.loadSession(c)
	if err != nil {
		return err
	}
	if question == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if _, ok := sessionCookieID(c); ok && s == nil {
		return h.renderSession(c, http.StatusConflict, nil, "", MsgSessionNotFound)
	}
	if !s.HasSummary() {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	answer, err := h.summarizer.Answer(ctx, s.Transcript, question)
	if err != nil {
		h.logger.Error("answer failed", "video_id", s.VideoID, "error", err)
		return h.renderSession(c, http.StatusBadGateway, s, "", MsgServiceFailed)
	}

	// the answer only belongs to the history it was computed against
	err = h.store.AppendTurn(ctx, s.ID, s.Generation, models.ChatTurn{Question: question, Answer: answer})
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return h.renderError(c, http.StatusConflict, "", MsgSessionNotFound)
	case errors.Is(err, storage.ErrSessionChanged):
		h.logger.Info("dropped answer for replaced video", "video_id", s.VideoID, "session", s.ID)
		return h.renderError(c, http.StatusConflict, "", MsgSessionChanged)
	case err != nil:
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Reset discards the session's video and history.
func (h *Handler) Reset(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if err := h.store.Delete(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) renderError(c echo.Context, status int, rawURL, msg string) error {
	s, err := h.loadSession(c)
	if err != nil {
		return err
	}
	return h.renderSession(c, status, s, rawURL, msg)
}

func (h *Handler) renderSession(c echo.Context, status int, s *models.Session, rawURL, msg string) error {
	v := h.view(s)
	v.URL = rawURL
	v.Error = msg
	return render(c, status, components.Home(v))
}

func (h *Handler) view(s *models.Session) components.HomeView {
	var stats summarizer.Stats
	if s.HasSummary() {
		stats = h.summarizer.Stats(s.Transcript)
	}
	return components.NewHomeView(s, stats)
}

// fetchErrorStatus maps a transcript fetch error to a response status. A
// video without a usable track is not an upstream failure.
func fetchErrorStatus(err error) int {
	if errors.Is(err, youtube.ErrNoTranscript) || errors.Is(err, youtube.ErrNoTextRendition) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// sessionCookieID returns the session id carried by the request, if valid.
func sessionCookieID(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || uuid.Validate(cookie.Value) != nil {
		return "", false
	}
	return cookie.Value, true
}

// loadSession returns the session named by the request cookie, or nil.
func (h *Handler) loadSession(c echo.Context) (*models.Session, error) {
	id, ok := sessionCookieID(c)
	if !ok {
		return nil, nil
	}
	return h.store.Get(c.Request().Context(), id)
}

// sessionID returns the request's session id, issuing a new cookie when the
// browser has none.
func (h *Handler) sessionID(c echo.Context) string {
	if id, ok := sessionCookieID(c); ok {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}
