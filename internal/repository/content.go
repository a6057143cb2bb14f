package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// ContentRepository handles the prophets' stories and names-of-Allah
// content library.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository creates a new ContentRepository instance.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

// CreateProphet inserts a prophet story entry with its audio file reference.
func (r *ContentRepository) CreateProphet(ctx context.Context, name model.LocalizedText, audioFileID string) (int64, error) {
	const query = `
		INSERT INTO prophets (name_uz, name_ru, name_ar, name_en, audio_file_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, name.UZ, name.RU, name.AR, name.EN, audioFileID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create prophet: %w", err)
	}
	return id, nil
}

// ListProphets retrieves all prophet entries in insertion order.
func (r *ContentRepository) ListProphets(ctx context.Context) ([]*model.Prophet, error) {
	const query = `
		SELECT id, name_uz, name_ru, name_ar, name_en, audio_file_id, created_at
		FROM prophets
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list prophets: %w", err)
	}
	defer rows.Close()

	var prophets []*model.Prophet
	for rows.Next() {
		var p model.Prophet
		err := rows.Scan(&p.ID, &p.Name.UZ, &p.Name.RU, &p.Name.AR, &p.Name.EN, &p.AudioFileID, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prophet: %w", err)
		}
		prophets = append(prophets, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prophets: %w", err)
	}
	return prophets, nil
}

// GetProphetAudio retrieves the stored audio file reference for a prophet.
func (r *ContentRepository) GetProphetAudio(ctx context.Context, id int64) (string, error) {
	const query = `SELECT audio_file_id FROM prophets WHERE id = $1`

	var fileID string
	err := r.pool.QueryRow(ctx, query, id).Scan(&fileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("prophet %d: %w", id, pgx.ErrNoRows)
		}
		return "", fmt.Errorf("failed to get prophet audio: %w", err)
	}
	return fileID, nil
}

// ListAllahNames retrieves the 99 names ordered by number.
func (r *ContentRepository) ListAllahNames(ctx context.Context) ([]*model.AllahName, error) {
	const query = `
		SELECT id, number, name_uz, name_ru, name_ar, name_en,
		       description_uz, description_ru, description_ar, description_en
		FROM allah_names
		ORDER BY number
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var names []*model.AllahName
	for rows.Next() {
		var n model.AllahName
		err := rows.Scan(
			&n.ID, &n.Number,
			&n.Name.UZ, &n.Name.RU, &n.Name.AR, &n.Name.EN,
			&n.Description.UZ, &n.Description.RU, &n.Description.AR, &n.Description.EN,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating names: %w", err)
	}
	return names, nil
}

// GetAllahName retrieves one entry by its number (1..99).
func (r *ContentRepository) GetAllahName(ctx context.Context, number int) (*model.AllahName, error) {
	const query = `
		SELECT id, number, name_uz, name_ru, name_ar, name_en,
		       description_uz, description_ru, description_ar, description_en
		FROM allah_names
		WHERE number = $1
	`

	var n model.AllahName
	err := r.pool.QueryRow(ctx, query, number).Scan(
		&n.ID, &n.Number,
		&n.Name.UZ, &n.Name.RU, &n.Name.AR, &n.Name.EN,
		&n.Description.UZ, &n.Description.RU, &n.Description.AR, &n.Description.EN,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("name %d: %w", number, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get name: %w", err)
	}
	return &n, nil
}
