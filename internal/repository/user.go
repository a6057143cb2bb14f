// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrRewardNotFound   = errors.New("reward not found")
	ErrRewardNotPending = errors.New("reward is not pending")
)

// UserRepository handles user data persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "telegram_id, username, display_name, language, registered_at, is_active"

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.TelegramID,
		&u.Username,
		&u.DisplayName,
		&u.Language,
		&u.RegisteredAt,
		&u.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user with the default language (Uzbek).
func (r *UserRepository) Create(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	const query = `
		INSERT INTO users (telegram_id, username, display_name, language, registered_at, is_active)
		VALUES ($1, $2, '', 'UZ', NOW(), TRUE)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate retrieves a user by Telegram ID, creating one if it doesn't exist.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, telegramID, username)
	if err != nil {
		// Handle race condition: another update might have created the user.
		user, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// SetLanguage updates a user's preferred UI language.
func (r *UserRepository) SetLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	const query = `UPDATE users SET language = $2 WHERE telegram_id = $1`

	result, err := r.pool.Exec(ctx, query, telegramID, lang)
	if err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetDisplayName updates a user's display name collected during onboarding.
func (r *UserRepository) SetDisplayName(ctx context.Context, telegramID int64, name string) error {
	const query = `UPDATE users SET display_name = $2 WHERE telegram_id = $1`

	result, err := r.pool.Exec(ctx, query, telegramID, name)
	if err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountAll returns the total number of registered users.
func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountToday returns the number of users registered today.
func (r *UserRepository) CountToday(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE registered_at::date = CURRENT_DATE`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count today's users: %w", err)
	}
	return count, nil
}

// List returns users ordered by registration time, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY registered_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
