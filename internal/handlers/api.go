package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/winnerumukoro/youtube-summarizer/internal/version"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
)

// VideoIDRequest is the body of POST /api/video-id.
type VideoIDRequest struct {
	URL string `json:"url" form:"url"`
}

// TranscriptRequest is the body of POST /api/transcript.
type TranscriptRequest struct {
	VideoID string `json:"video_id" form:"video_id"`
}

// TextRequest is the body of POST /api/summarize and POST /api/stats.
type TextRequest struct {
	Transcript string `json:"transcript" form:"transcript"`
}

// AnswerRequest is the body of POST /api/answer.
type AnswerRequest struct {
	Transcript string `json:"transcript" form:"transcript"`
	Question   string `json:"question" form:"question"`
}

// APIVideoID extracts the video identifier from a URL.
func (h *Handler) APIVideoID(c echo.Context) error {
	var req VideoIDRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	id, ok := youtube.ExtractVideoID(strings.TrimSpace(req.URL))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": MsgInvalidURL})
	}
	return c.JSON(http.StatusOK, map[string]string{"video_id": id})
}

// APITranscript fetches the transcript text of a video.
func (h *Handler) APITranscript(c echo.Context) error {
	var req TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.VideoID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "video_id is required"})
	}

	transcript, err := h.fetcher.FetchTranscript(c.Request().Context(), req.VideoID)
	if err != nil {
		return c.JSON(fetchErrorStatus(err), map[string]string{"error": MsgFetchFailed + err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"video_id":   req.VideoID,
		"transcript": transcript,
	})
}

// APISummarize summarizes a transcript.
func (h *Handler) APISummarize(c echo.Context) error {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "transcript is required"})
	}

	summary, err := h.summarizer.Summarize(c.Request().Context(), req.Transcript)
	if err != nil {
		h.logger.Error("summary failed", "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": MsgServiceFailed})
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

// APIAnswer answers a question about a transcript.
func (h *Handler) APIAnswer(c echo.Context) error {
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "transcript is required"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	answer, err := h.summarizer.Answer(c.Request().Context(), req.Transcript, req.Question)
	if err != nil {
		h.logger.Error("answer failed", "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": MsgServiceFailed})
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

// APIStats returns the word count and estimated reading time of a transcript.
func (h *Handler) APIStats(c echo.Context) error {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return c.JSON(http.StatusOK, h.summarizer.Stats(req.Transcript))
}

// Health reports liveness and the running version.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
