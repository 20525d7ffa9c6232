package models

import "time"

// Session is the state of one browser session: the active video, its
// transcript and summary, and the questions asked about it.
type Session struct {
	ID         string     `json:"id"`
	VideoID    string     `json:"video_id"`
	Transcript string     `json:"transcript"`
	Summary    string     `json:"summary"`
	History    []ChatTurn `json:"history"`
	Generation int64      `json:"generation"` // incremented on every Replace
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ChatTurn is one question and the model's answer.
type ChatTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// HasSummary reports whether a video has been summarized in this session.
func (s *Session) HasSummary() bool {
	return s != nil && s.Summary != ""
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]ChatTurn(nil), s.History...)
	return &c
}
