package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// SessionRepository handles quiz session persistence for the
// 20-consecutive-correct challenge.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = "id, user_id, started_at, ended_at, correct_count, status, reward_paid"

func scanSession(row pgx.Row) (*model.QuizSession, error) {
	var s model.QuizSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.StartedAt,
		&s.EndedAt,
		&s.CorrectCount,
		&s.Status,
		&s.RewardPaid,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetActive retrieves the user's active session.
// Returns ErrNoActiveSession when the user holds none.
func (r *SessionRepository) GetActive(ctx context.Context, userID int64) (*model.QuizSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM quiz_sessions
		WHERE user_id = $1 AND status = 'active'
	`

	session, err := scanSession(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return session, nil
}

// Start opens a fresh active session at zero correct answers. The unique
// partial index on (user_id) WHERE status='active' rejects a second
// concurrent open for the same user.
func (r *SessionRepository) Start(ctx context.Context, userID int64) (*model.QuizSession, error) {
	const query = `
		INSERT INTO quiz_sessions (user_id, started_at, correct_count, status, reward_paid)
		VALUES ($1, NOW(), 0, 'active', FALSE)
		RETURNING ` + sessionColumns

	session, err := scanSession(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// IncrementCorrect credits one correct answer to an active session and
// returns the refreshed count. One call equals one increment.
func (r *SessionRepository) IncrementCorrect(ctx context.Context, sessionID int64) (int, error) {
	const query = `
		UPDATE quiz_sessions
		SET correct_count = correct_count + 1
		WHERE id = $1 AND status = 'active'
		RETURNING correct_count
	`

	var count int
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoActiveSession
		}
		return 0, fmt.Errorf("failed to increment session: %w", err)
	}
	return count, nil
}

// Finish transitions an active session to completed or failed and stamps
// the end time. The session is kept for history; progress is not resumed.
func (r *SessionRepository) Finish(ctx context.Context, sessionID int64, status string) error {
	const query = `
		UPDATE quiz_sessions
		SET status = $2, ended_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.pool.Exec(ctx, query, sessionID, status)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNoActiveSession
	}
	return nil
}

// MarkRewardPaid flags the session once its reward has been paid out.
func (r *SessionRepository) MarkRewardPaid(ctx context.Context, sessionID int64) error {
	const query = `UPDATE quiz_sessions SET reward_paid = TRUE WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to mark session reward paid: %w", err)
	}
	return nil
}

// WaitLockRepository handles the per-user cooldown rows created after a
// wrong answer.
type WaitLockRepository struct {
	pool *pgxpool.Pool
}

// NewWaitLockRepository creates a new WaitLockRepository instance.
func NewWaitLockRepository(pool *pgxpool.Pool) *WaitLockRepository {
	return &WaitLockRepository{pool: pool}
}

// Set upserts the user's lock, overwriting any prior one (no stacking).
func (r *WaitLockRepository) Set(ctx context.Context, userID int64, until time.Time) error {
	const query = `
		INSERT INTO wait_locks (user_id, wait_until)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET wait_until = EXCLUDED.wait_until
	`

	if _, err := r.pool.Exec(ctx, query, userID, until); err != nil {
		return fmt.Errorf("failed to set wait lock: %w", err)
	}
	return nil
}

// Get returns the user's lock, or nil when none exists.
func (r *WaitLockRepository) Get(ctx context.Context, userID int64) (*model.WaitLock, error) {
	const query = `SELECT user_id, wait_until FROM wait_locks WHERE user_id = $1`

	var lock model.WaitLock
	err := r.pool.QueryRow(ctx, query, userID).Scan(&lock.UserID, &lock.WaitUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wait lock: %w", err)
	}
	return &lock, nil
}

// Delete removes the user's lock.
func (r *WaitLockRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM wait_locks WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete wait lock: %w", err)
	}
	return nil
}
