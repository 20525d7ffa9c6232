package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnerumukoro/youtube-summarizer/internal/models"
)

type sessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Replace(ctx context.Context, id, videoID, transcript, summary string) error
	AppendTurn(ctx context.Context, id string, generation int64, turn models.ChatTurn) error
	Delete(ctx context.Context, id string) error
	CleanupIdle(ctx context.Context, maxIdle time.Duration) (int64, error)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newSQLiteStore(t *testing.T, c *clock) sessionStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSessionRepository(db)
	repo.now = c.now
	return repo
}

func newMemStore(t *testing.T, c *clock) sessionStore {
	m := NewMemoryStore()
	m.now = c.now
	return m
}

func forEachStore(t *testing.T, fn func(t *testing.T, s sessionStore, c *clock)) {
	stores := map[string]func(*testing.T, *clock) sessionStore{
		"sqlite": newSQLiteStore,
		"memory": newMemStore,
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.UnixMilli(1_700_000_000_000)}
			fn(t, mk(t, c), c)
		})
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		got, err := s.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSessionStore_ReplaceAndHistory(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, "s1", "dQw4w9WgXcQ", "transcript one", "summary one"))

		const n = 5
		for i := 0; i < n; i++ {
			c.advance(time.Second)
			require.NoError(t, s.AppendTurn(ctx, "s1", 1, models.ChatTurn{
				Question: fmt.Sprintf("q%d", i),
				Answer:   fmt.Sprintf("a%d", i),
			}))
		}

		got, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
		assert.Equal(t, "transcript one", got.Transcript)
		assert.Equal(t, "summary one", got.Summary)
		require.Len(t, got.History, n)
		for i, turn := range got.History {
			assert.Equal(t, fmt.Sprintf("q%d", i), turn.Question)
			assert.Equal(t, fmt.Sprintf("a%d", i), turn.Answer)
		}
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
		assert.Equal(t, int64(1), got.Generation)

		// a new summarize replaces everything and clears the history
		require.NoError(t, s.Replace(ctx, "s1", "AAAAAAAAAAA", "transcript two", "summary two"))
		got, err = s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "AAAAAAAAAAA", got.VideoID)
		assert.Equal(t, "summary two", got.Summary)
		assert.Equal(t, int64(2), got.Generation)
		assert.Empty(t, got.History)
	})
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, "a", "AAAAAAAAAAA", "ta", "sa"))
		require.NoError(t, s.Replace(ctx, "b", "BBBBBBBBBBB", "tb", "sb"))
		require.NoError(t, s.AppendTurn(ctx, "a", 1, models.ChatTurn{Question: "q", Answer: "x"}))

		b, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, b.History)

		a, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.Len(t, a.History, 1)

		// returned values are copies
		a.History[0].Answer = "changed"
		again, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "x", again.History[0].Answer)
	})
}

func TestSessionStore_AppendTurnAfterReplace(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, "s1", "AAAAAAAAAAA", "transcript a", "summary a"))
		before, err := s.Get(ctx, "s1")
		require.NoError(t, err)

		// another request summarizes a new video while the answer is pending
		require.NoError(t, s.Replace(ctx, "s1", "BBBBBBBBBBB", "transcript b", "summary b"))

		err = s.AppendTurn(ctx, "s1", before.Generation, models.ChatTurn{Question: "about a", Answer: "a"})
		assert.ErrorIs(t, err, ErrSessionChanged)

		after, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "BBBBBBBBBBB", after.VideoID)
		assert.Empty(t, after.History)

		require.NoError(t, s.AppendTurn(ctx, "s1", after.Generation, models.ChatTurn{Question: "about b", Answer: "b"}))
		after, err = s.Get(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, after.History, 1)
		assert.Equal(t, "about b", after.History[0].Question)
	})
}

func TestSessionStore_AppendTurnUnknownSession(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		err := s.AppendTurn(context.Background(), "nope", 1, models.ChatTurn{Question: "q", Answer: "a"})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionStore_Delete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, "s1", "AAAAAAAAAAA", "t", "s"))
		require.NoError(t, s.AppendTurn(ctx, "s1", 1, models.ChatTurn{Question: "q", Answer: "a"}))
		require.NoError(t, s.Delete(ctx, "s1"))

		got, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Nil(t, got)

		// deleting twice is fine
		require.NoError(t, s.Delete(ctx, "s1"))
	})
}

func TestSessionStore_CleanupIdle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s sessionStore, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, "old", "AAAAAAAAAAA", "t", "s"))
		c.advance(2 * time.Hour)
		require.NoError(t, s.Replace(ctx, "fresh", "BBBBBBBBBBB", "t", "s"))

		removed, err := s.CleanupIdle(ctx, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		old, err := s.Get(ctx, "old")
		require.NoError(t, err)
		assert.Nil(t, old)

		fresh, err := s.Get(ctx, "fresh")
		require.NoError(t, err)
		assert.NotNil(t, fresh)
	})
}
