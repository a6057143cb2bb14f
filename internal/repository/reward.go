package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quiz-bot/internal/model"
)

// RewardRepository handles reward and card persistence for the payout
// workflow.
type RewardRepository struct {
	pool *pgxpool.Pool
}

// NewRewardRepository creates a new RewardRepository instance.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

const rewardColumns = "id, user_id, session_id, amount, status, paid_by, paid_at, proof_photo_id, created_at"

func scanReward(row pgx.Row) (*model.Reward, error) {
	var rw model.Reward
	err := row.Scan(
		&rw.ID,
		&rw.UserID,
		&rw.SessionID,
		&rw.Amount,
		&rw.Status,
		&rw.PaidBy,
		&rw.PaidAt,
		&rw.ProofPhotoID,
		&rw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

// Create inserts a pending reward for a completed session.
func (r *RewardRepository) Create(ctx context.Context, userID, sessionID, amount int64) (*model.Reward, error) {
	const query = `
		INSERT INTO rewards (user_id, session_id, amount, status, created_at)
		VALUES ($1, $2, $3, 'pending', NOW())
		RETURNING ` + rewardColumns

	reward, err := scanReward(r.pool.QueryRow(ctx, query, userID, sessionID, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return reward, nil
}

// GetByID retrieves a reward by ID.
// Returns ErrRewardNotFound if it does not exist.
func (r *RewardRepository) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE id = $1`

	reward, err := scanReward(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return reward, nil
}

// MarkPaid transitions a pending reward to paid, recording the paying
// admin and the proof photo. The status guard is in the statement itself:
// a reward already paid or cancelled is left untouched and
// ErrRewardNotPending is returned.
func (r *RewardRepository) MarkPaid(ctx context.Context, id, adminID int64, proofPhotoID string) (*model.Reward, error) {
	const query = `
		UPDATE rewards
		SET status = 'paid', paid_by = $2, paid_at = NOW(), proof_photo_id = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + rewardColumns

	reward, err := scanReward(r.pool.QueryRow(ctx, query, id, adminID, proofPhotoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.notPendingOrMissing(ctx, id)
		}
		return nil, fmt.Errorf("failed to mark reward paid: %w", err)
	}
	return reward, nil
}

// Cancel transitions a pending reward to cancelled. Terminal.
func (r *RewardRepository) Cancel(ctx context.Context, id, adminID int64) (*model.Reward, error) {
	const query = `
		UPDATE rewards
		SET status = 'cancelled', paid_by = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + rewardColumns

	reward, err := scanReward(r.pool.QueryRow(ctx, query, id, adminID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.notPendingOrMissing(ctx, id)
		}
		return nil, fmt.Errorf("failed to cancel reward: %w", err)
	}
	return reward, nil
}

// notPendingOrMissing distinguishes a guard failure from a missing row.
func (r *RewardRepository) notPendingOrMissing(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrRewardNotPending
}

// ListPending retrieves pending rewards joined with recipient identity
// and submitted card details, newest first.
func (r *RewardRepository) ListPending(ctx context.Context) ([]*model.PendingReward, error) {
	const query = `
		SELECT r.id, r.user_id, r.session_id, r.amount, r.status, r.paid_by, r.paid_at, r.proof_photo_id, r.created_at,
		       u.display_name, u.username,
		       COALESCE(c.card_number, ''), COALESCE(c.card_holder, '')
		FROM rewards r
		JOIN users u ON r.user_id = u.telegram_id
		LEFT JOIN user_cards c ON r.user_id = c.user_id
		WHERE r.status = 'pending'
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending rewards: %w", err)
	}
	defer rows.Close()

	var pending []*model.PendingReward
	for rows.Next() {
		var p model.PendingReward
		err := rows.Scan(
			&p.Reward.ID,
			&p.Reward.UserID,
			&p.Reward.SessionID,
			&p.Reward.Amount,
			&p.Reward.Status,
			&p.Reward.PaidBy,
			&p.Reward.PaidAt,
			&p.Reward.ProofPhotoID,
			&p.Reward.CreatedAt,
			&p.DisplayName,
			&p.Username,
			&p.CardNumber,
			&p.CardHolder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending reward: %w", err)
		}
		pending = append(pending, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending rewards: %w", err)
	}
	return pending, nil
}

// ListByUser retrieves all of a user's rewards, newest first.
func (r *RewardRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []*model.Reward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}
	return rewards, nil
}

// UpsertCard stores the user's bank card details, replacing any earlier
// submission. Only one live card record exists per user.
func (r *RewardRepository) UpsertCard(ctx context.Context, userID int64, cardNumber, cardHolder string) (*model.UserCard, error) {
	const query = `
		INSERT INTO user_cards (user_id, card_number, card_holder, submitted_at, verified)
		VALUES ($1, $2, $3, NOW(), FALSE)
		ON CONFLICT (user_id) DO UPDATE SET
			card_number  = EXCLUDED.card_number,
			card_holder  = EXCLUDED.card_holder,
			submitted_at = EXCLUDED.submitted_at,
			verified     = FALSE,
			verified_by  = NULL,
			verified_at  = NULL
		RETURNING id, user_id, card_number, card_holder, submitted_at, verified, verified_by, verified_at
	`

	var card model.UserCard
	err := r.pool.QueryRow(ctx, query, userID, cardNumber, cardHolder).Scan(
		&card.ID,
		&card.UserID,
		&card.CardNumber,
		&card.CardHolder,
		&card.SubmittedAt,
		&card.Verified,
		&card.VerifiedBy,
		&card.VerifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert card: %w", err)
	}
	return &card, nil
}

// GetCard retrieves a user's card, or nil when none was submitted.
func (r *RewardRepository) GetCard(ctx context.Context, userID int64) (*model.UserCard, error) {
	const query = `
		SELECT id, user_id, card_number, card_holder, submitted_at, verified, verified_by, verified_at
		FROM user_cards
		WHERE user_id = $1
	`

	var card model.UserCard
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&card.ID,
		&card.UserID,
		&card.CardNumber,
		&card.CardHolder,
		&card.SubmittedAt,
		&card.Verified,
		&card.VerifiedBy,
		&card.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}
