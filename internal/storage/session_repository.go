package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/winnerumukoro/youtube-summarizer/internal/models"
)

// SessionRepository stores sessions in SQLite.
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

// NewSessionRepository creates a SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Get returns the session with its chat history, or nil if it does not exist.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	var created, updated int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, video_id, transcript, summary, generation, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.VideoID, &s.Transcript, &s.Summary, &s.Generation, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.CreatedAt = time.UnixMilli(created)
	s.UpdatedAt = time.UnixMilli(updated)

	rows, err := r.db.QueryContext(ctx,
		`SELECT question, answer, created_at FROM chat_turns WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list chat turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var turn models.ChatTurn
		var at int64
		if err := rows.Scan(&turn.Question, &turn.Answer, &at); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		turn.CreatedAt = time.UnixMilli(at)
		s.History = append(s.History, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat turns: %w", err)
	}
	return &s, nil
}

// Replace sets the session's video, transcript and summary, creating the
// session if needed, clears its chat history and bumps its generation.
func (r *SessionRepository) Replace(ctx context.Context, id, videoID, transcript, summary string) error {
	now := r.now().UnixMilli()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, video_id, transcript, summary, generation, created_at, updated_at)
			VALUES (?, ?, ?, ?, 1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				video_id = excluded.video_id,
				transcript = excluded.transcript,
				summary = excluded.summary,
				generation = sessions.generation + 1,
				updated_at = excluded.updated_at`,
			id, videoID, transcript, summary, now, now)
		if err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_turns WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("clear chat turns: %w", err)
		}
		return nil
	})
}

// AppendTurn adds turn to the end of the session's chat history if the
// session is still at generation. It returns ErrSessionChanged when a
// Replace happened since, and ErrSessionNotFound when the session is gone.
func (r *SessionRepository) AppendTurn(ctx context.Context, id string, generation int64, turn models.ChatTurn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = r.now()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE sessions SET updated_at = ? WHERE id = ? AND generation = ?`, r.now().UnixMilli(), id, generation)
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		if n == 0 {
			var current int64
			err := tx.QueryRowContext(ctx, `SELECT generation FROM sessions WHERE id = ?`, id).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			if err != nil {
				return fmt.Errorf("check session: %w", err)
			}
			return ErrSessionChanged
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chat_turns (session_id, position, question, answer, created_at)
			SELECT ?, COALESCE(MAX(position), 0) + 1, ?, ?, ? FROM chat_turns WHERE session_id = ?`,
			id, turn.Question, turn.Answer, turn.CreatedAt.UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("insert chat turn: %w", err)
		}
		return nil
	})
}

// Delete removes the session and its history.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_turns WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("delete chat turns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// CleanupIdle deletes sessions not updated within maxIdle and returns how
// many were removed.
func (r *SessionRepository) CleanupIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := r.now().Add(-maxIdle).UnixMilli()
	var removed int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM chat_turns WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`, cutoff)
		if err != nil {
			return fmt.Errorf("delete idle chat turns: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
		if err != nil {
			return fmt.Errorf("delete idle sessions: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	return removed, err
}

func (r *SessionRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
