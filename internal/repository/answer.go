package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// AnswerRepository handles the append-only answer log and the per-user
// aggregate stats maintained alongside it.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository instance.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Create appends one answer event. selectedOption is 0 for free-text
// submissions. Rows are never updated afterwards.
func (r *AnswerRepository) Create(ctx context.Context, userID, questionID int64, selectedOption int, isCorrect bool) (*model.AnswerEvent, error) {
	const query = `
		INSERT INTO answer_events (user_id, question_id, selected_option, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, question_id, selected_option, is_correct, answered_at
	`

	var ev model.AnswerEvent
	err := r.pool.QueryRow(ctx, query, userID, questionID, selectedOption, isCorrect).Scan(
		&ev.ID,
		&ev.UserID,
		&ev.QuestionID,
		&ev.SelectedOption,
		&ev.IsCorrect,
		&ev.AnsweredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer event: %w", err)
	}
	return &ev, nil
}

// RecordStat updates the user's aggregate counters for one answer in a
// single atomic statement, creating the row on first answer. The best
// streak only ever grows; the current streak resets on a wrong answer.
func (r *AnswerRepository) RecordStat(ctx context.Context, userID int64, isCorrect bool) (*model.UserStats, error) {
	const correctQuery = `
		INSERT INTO user_stats (user_id, correct_count, wrong_count, total_count, current_streak, best_streak)
		VALUES ($1, 1, 0, 1, 1, 1)
		ON CONFLICT (user_id) DO UPDATE SET
			correct_count  = user_stats.correct_count + 1,
			total_count    = user_stats.total_count + 1,
			current_streak = user_stats.current_streak + 1,
			best_streak    = GREATEST(user_stats.best_streak, user_stats.current_streak + 1)
		RETURNING user_id, correct_count, wrong_count, total_count, current_streak, best_streak
	`
	const wrongQuery = `
		INSERT INTO user_stats (user_id, correct_count, wrong_count, total_count, current_streak, best_streak)
		VALUES ($1, 0, 1, 1, 0, 0)
		ON CONFLICT (user_id) DO UPDATE SET
			wrong_count    = user_stats.wrong_count + 1,
			total_count    = user_stats.total_count + 1,
			current_streak = 0
		RETURNING user_id, correct_count, wrong_count, total_count, current_streak, best_streak
	`

	query := wrongQuery
	if isCorrect {
		query = correctQuery
	}

	var st model.UserStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&st.UserID,
		&st.CorrectCount,
		&st.WrongCount,
		&st.TotalCount,
		&st.CurrentStreak,
		&st.BestStreak,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record stat: %w", err)
	}
	return &st, nil
}

// GetStats retrieves a user's aggregate stats. A user with no answers
// yet gets zero-valued stats rather than an error.
func (r *AnswerRepository) GetStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	const query = `
		SELECT user_id, correct_count, wrong_count, total_count, current_streak, best_streak
		FROM user_stats
		WHERE user_id = $1
	`

	var st model.UserStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&st.UserID,
		&st.CorrectCount,
		&st.WrongCount,
		&st.TotalCount,
		&st.CurrentStreak,
		&st.BestStreak,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &st, nil
}

// ListByUser retrieves a user's recent answers with question context,
// newest first.
func (r *AnswerRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.UserAnswerDetail, error) {
	const query = `
		SELECT a.id, a.user_id, a.question_id, a.selected_option, a.is_correct, a.answered_at,
		       u.display_name, u.username, q.question_uz
		FROM answer_events a
		JOIN users u ON a.user_id = u.telegram_id
		JOIN questions q ON a.question_id = q.id
		WHERE a.user_id = $1
		ORDER BY a.answered_at DESC
		LIMIT $2
	`
	return r.queryDetails(ctx, query, userID, limit)
}

// ListRecent retrieves the most recent answers across all users.
func (r *AnswerRepository) ListRecent(ctx context.Context, limit int) ([]*model.UserAnswerDetail, error) {
	const query = `
		SELECT a.id, a.user_id, a.question_id, a.selected_option, a.is_correct, a.answered_at,
		       u.display_name, u.username, q.question_uz
		FROM answer_events a
		JOIN users u ON a.user_id = u.telegram_id
		JOIN questions q ON a.question_id = q.id
		ORDER BY a.answered_at DESC
		LIMIT $1
	`
	return r.queryDetails(ctx, query, limit)
}

func (r *AnswerRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*model.UserAnswerDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var details []*model.UserAnswerDetail
	for rows.Next() {
		var d model.UserAnswerDetail
		err := rows.Scan(
			&d.Event.ID,
			&d.Event.UserID,
			&d.Event.QuestionID,
			&d.Event.SelectedOption,
			&d.Event.IsCorrect,
			&d.Event.AnsweredAt,
			&d.DisplayName,
			&d.Username,
			&d.QuestionUZ,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return details, nil
}

// TopAnswerers returns users ranked by correct answer count for the
// admin statistics view.
func (r *AnswerRepository) TopAnswerers(ctx context.Context, limit int) ([]*model.UserStats, error) {
	const query = `
		SELECT user_id, correct_count, wrong_count, total_count, current_streak, best_streak
		FROM user_stats
		ORDER BY correct_count DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top answerers: %w", err)
	}
	defer rows.Close()

	var stats []*model.UserStats
	for rows.Next() {
		var st model.UserStats
		err := rows.Scan(
			&st.UserID,
			&st.CorrectCount,
			&st.WrongCount,
			&st.TotalCount,
			&st.CurrentStreak,
			&st.BestStreak,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats = append(stats, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}
	return stats, nil
}
