package storage

import (
	"context"
	"sync"
	"time"

	"github.com/winnerumukoro/youtube-summarizer/internal/models"
)

// MemoryStore keeps sessions in process memory. It is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

// Get returns a copy of the session, or nil if it does not exist.
func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id].Clone(), nil
}

// Replace sets the session's video, transcript and summary, clears its
// chat history and bumps its generation.
func (m *MemoryStore) Replace(ctx context.Context, id, videoID, transcript, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s, ok := m.sessions[id]
	if !ok {
		s = &models.Session{ID: id, CreatedAt: now}
		m.sessions[id] = s
	}
	s.VideoID = videoID
	s.Transcript = transcript
	s.Summary = summary
	s.History = nil
	s.Generation++
	s.UpdatedAt = now
	return nil
}

// AppendTurn adds turn to the end of the session's chat history if the
// session is still at generation.
func (m *MemoryStore) AppendTurn(ctx context.Context, id string, generation int64, turn models.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Generation != generation {
		return ErrSessionChanged
	}
	now := m.now()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = now
	}
	s.History = append(s.History, turn)
	s.UpdatedAt = now
	return nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// CleanupIdle deletes sessions not updated within maxIdle.
func (m *MemoryStore) CleanupIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	var removed int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}
