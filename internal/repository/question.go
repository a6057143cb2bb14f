package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// QuestionCard is a question projected into a single language, ready to
// be shown to a user.
type QuestionCard struct {
	ID            int64
	Text          string
	Options       [3]string
	CorrectOption int
}

// QuestionRepository handles quiz question persistence.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository instance.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// langSuffix maps a language to its column suffix. The suffix is chosen
// from a fixed set, never from user input, so interpolating it into a
// query is safe.
func langSuffix(lang model.Language) string {
	switch lang {
	case model.LangRU:
		return "ru"
	case model.LangAR:
		return "ar"
	case model.LangEN:
		return "en"
	default:
		return "uz"
	}
}

// Create inserts a fully localized question and returns its ID.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) (int64, error) {
	const query = `
		INSERT INTO questions (
			question_uz, question_ru, question_ar, question_en,
			option1_uz, option1_ru, option1_ar, option1_en,
			option2_uz, option2_ru, option2_ar, option2_en,
			option3_uz, option3_ru, option3_ar, option3_en,
			correct_option, created_by, created_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), TRUE)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		q.Text.UZ, q.Text.RU, q.Text.AR, q.Text.EN,
		q.Options[0].UZ, q.Options[0].RU, q.Options[0].AR, q.Options[0].EN,
		q.Options[1].UZ, q.Options[1].RU, q.Options[1].AR, q.Options[1].EN,
		q.Options[2].UZ, q.Options[2].RU, q.Options[2].AR, q.Options[2].EN,
		q.CorrectOption, q.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return id, nil
}

// RandomActive draws one random active question in the given language,
// excluding the listed IDs. Questions without text in that language are
// skipped. Returns ErrQuestionNotFound when the filtered pool is empty.
func (r *QuestionRepository) RandomActive(ctx context.Context, lang model.Language, excluded []int64) (*QuestionCard, error) {
	sfx := langSuffix(lang)

	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT id, question_%[1]s, option1_%[1]s, option2_%[1]s, option3_%[1]s, correct_option
		FROM questions
		WHERE is_active = TRUE
		  AND question_%[1]s IS NOT NULL
		  AND question_%[1]s <> ''`, sfx)

	args := make([]any, 0, 1)
	if len(excluded) > 0 {
		args = append(args, excluded)
		b.WriteString(" AND id <> ALL($1)")
	}
	b.WriteString(" ORDER BY RANDOM() LIMIT 1")

	var card QuestionCard
	err := r.pool.QueryRow(ctx, b.String(), args...).Scan(
		&card.ID,
		&card.Text,
		&card.Options[0],
		&card.Options[1],
		&card.Options[2],
		&card.CorrectOption,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to draw random question: %w", err)
	}
	return &card, nil
}

// CountActive returns the number of active questions with text in lang.
func (r *QuestionRepository) CountActive(ctx context.Context, lang model.Language) (int, error) {
	sfx := langSuffix(lang)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM questions
		WHERE is_active = TRUE AND question_%[1]s IS NOT NULL AND question_%[1]s <> ''`, sfx)

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Counts returns active question totals per language for admin statistics.
func (r *QuestionRepository) Counts(ctx context.Context) (*model.QuestionCounts, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE question_uz IS NOT NULL AND question_uz <> ''),
			COUNT(*) FILTER (WHERE question_ru IS NOT NULL AND question_ru <> ''),
			COUNT(*) FILTER (WHERE question_ar IS NOT NULL AND question_ar <> ''),
			COUNT(*) FILTER (WHERE question_en IS NOT NULL AND question_en <> '')
		FROM questions
		WHERE is_active = TRUE
	`

	var counts model.QuestionCounts
	err := r.pool.QueryRow(ctx, query).Scan(&counts.UZ, &counts.RU, &counts.AR, &counts.EN)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions per language: %w", err)
	}
	return &counts, nil
}

// Deactivate soft-deletes a question; it is never served again but stays
// referenced by past answer events.
func (r *QuestionRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE questions SET is_active = FALSE WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
