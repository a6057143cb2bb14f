package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
)

// SessionStore is the session persistence surface of the reward flow.
type SessionStore interface {
	GetActive(ctx context.Context, userID int64) (*model.QuizSession, error)
	Start(ctx context.Context, userID int64) (*model.QuizSession, error)
	IncrementCorrect(ctx context.Context, sessionID int64) (int, error)
	Finish(ctx context.Context, sessionID int64, status string) error
	MarkRewardPaid(ctx context.Context, sessionID int64) error
}

// RewardStore is the reward persistence surface of the reward flow.
type RewardStore interface {
	Create(ctx context.Context, userID, sessionID, amount int64) (*model.Reward, error)
	GetByID(ctx context.Context, id int64) (*model.Reward, error)
	MarkPaid(ctx context.Context, id, adminID int64, proofPhotoID string) (*model.Reward, error)
	Cancel(ctx context.Context, id, adminID int64) (*model.Reward, error)
	ListPending(ctx context.Context) ([]*model.PendingReward, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Reward, error)
	UpsertCard(ctx context.Context, userID int64, cardNumber, cardHolder string) (*model.UserCard, error)
	GetCard(ctx context.Context, userID int64) (*model.UserCard, error)
}

// Lockouter starts the post-wrong-answer cooldown.
type Lockouter interface {
	StartLockout(ctx context.Context, userID int64) error
}

// CorrectResult reports what RecordCorrect did with one correct answer.
type CorrectResult struct {
	Session      *model.QuizSession
	CorrectCount int
	Completed    bool
	Reward       *model.Reward
}

// RewardService drives the consecutive-correct challenge: opening and
// crediting sessions, failing them on a wrong answer, and issuing and
// settling payout records.
type RewardService struct {
	sessions SessionStore
	rewards  RewardStore
	lockouts Lockouter
	target   int
	amount   int64
}

// NewRewardService creates a new RewardService instance.
func NewRewardService(sessions SessionStore, rewards RewardStore, lockouts Lockouter, target int, amount int64) *RewardService {
	return &RewardService{
		sessions: sessions,
		rewards:  rewards,
		lockouts: lockouts,
		target:   target,
		amount:   amount,
	}
}

// Target returns the consecutive-correct count that completes a session.
func (s *RewardService) Target() int {
	return s.target
}

// Amount returns the payout amount in so'm.
func (s *RewardService) Amount() int64 {
	return s.amount
}

// Progress returns the correct count of the user's active session, or 0
// when no session is open.
func (s *RewardService) Progress(ctx context.Context, userID int64) (int, error) {
	session, err := s.sessions.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveSession) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return session.CorrectCount, nil
}

// RecordCorrect credits one correct answer: it opens a session if the
// user has none, increments the active one, and on reaching the target
// completes the session and issues a single pending reward. Callers must
// hold the per-user lock so two updates for the same user never
// interleave.
func (s *RewardService) RecordCorrect(ctx context.Context, userID int64) (*CorrectResult, error) {
	session, err := s.sessions.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveSession) {
		session, err = s.sessions.Start(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	count, err := s.sessions.IncrementCorrect(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit answer: %w", err)
	}
	session.CorrectCount = count

	result := &CorrectResult{Session: session, CorrectCount: count}
	if count < s.target {
		return result, nil
	}

	if err := s.sessions.Finish(ctx, session.ID, model.SessionCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.Status = model.SessionCompleted

	reward, err := s.rewards.Create(ctx, userID, session.ID, s.amount)
	if err != nil {
		return nil, fmt.Errorf("failed to issue reward: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Int64("session_id", session.ID).
		Int64("reward_id", reward.ID).
		Int64("amount", s.amount).
		Msg("Challenge completed, reward issued")

	result.Completed = true
	result.Reward = reward
	return result, nil
}

// RecordWrong fails the user's active session (if any) and starts the
// cooldown. The cooldown is unconditional: it applies even when no
// session was open.
func (s *RewardService) RecordWrong(ctx context.Context, userID int64) error {
	session, err := s.sessions.GetActive(ctx, userID)
	switch {
	case err == nil:
		if err := s.sessions.Finish(ctx, session.ID, model.SessionFailed); err != nil {
			return fmt.Errorf("failed to fail session: %w", err)
		}
		log.Info().
			Int64("user_id", userID).
			Int64("session_id", session.ID).
			Int("correct_count", session.CorrectCount).
			Msg("Session failed on wrong answer")
	case errors.Is(err, repository.ErrNoActiveSession):
		// nothing to fail
	default:
		return fmt.Errorf("failed to look up session: %w", err)
	}

	if err := s.lockouts.StartLockout(ctx, userID); err != nil {
		return err
	}
	return nil
}

// ValidateCardNumber checks that the card number has at least 16 digits,
// ignoring spaces. Non-digit characters other than spaces are rejected.
func ValidateCardNumber(raw string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(cleaned) < 16 {
		return "", fmt.Errorf("card number too short: %w", ErrValidation)
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) {
			return "", fmt.Errorf("card number contains non-digits: %w", ErrValidation)
		}
	}
	return cleaned, nil
}

// ValidateCardHolder checks that the holder name has at least 5 characters.
func ValidateCardHolder(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) < 5 {
		return "", fmt.Errorf("card holder name too short: %w", ErrValidation)
	}
	return name, nil
}

// SubmitCard validates and stores the user's payout card. The card is
// billing detail only; it does not change any reward's status.
func (s *RewardService) SubmitCard(ctx context.Context, userID int64, cardNumber, cardHolder string) (*model.UserCard, error) {
	number, err := ValidateCardNumber(cardNumber)
	if err != nil {
		return nil, err
	}
	holder, err := ValidateCardHolder(cardHolder)
	if err != nil {
		return nil, err
	}

	card, err := s.rewards.UpsertCard(ctx, userID, number, holder)
	if err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Msg("Payout card submitted")
	return card, nil
}

// GetCard returns the user's submitted card, or nil when none exists.
func (s *RewardService) GetCard(ctx context.Context, userID int64) (*model.UserCard, error) {
	return s.rewards.GetCard(ctx, userID)
}

// PendingRewards returns the admin payout queue.
func (s *RewardService) PendingRewards(ctx context.Context) ([]*model.PendingReward, error) {
	return s.rewards.ListPending(ctx)
}

// UserRewards returns the user's reward history, newest first.
func (s *RewardService) UserRewards(ctx context.Context, userID int64) ([]*model.Reward, error) {
	return s.rewards.ListByUser(ctx, userID)
}

// MarkPaid settles a pending reward with the admin's proof photo and
// flags the originating session. Returns ErrInvalidState when the reward
// was already settled.
func (s *RewardService) MarkPaid(ctx context.Context, rewardID, adminID int64, proofPhotoID string) (*model.Reward, error) {
	reward, err := s.rewards.MarkPaid(ctx, rewardID, adminID, proofPhotoID)
	if err != nil {
		if errors.Is(err, repository.ErrRewardNotPending) {
			return nil, fmt.Errorf("reward %d already settled: %w", rewardID, ErrInvalidState)
		}
		return nil, err
	}

	if err := s.sessions.MarkRewardPaid(ctx, reward.SessionID); err != nil {
		return nil, err
	}

	log.Info().
		Int64("reward_id", rewardID).
		Int64("admin_id", adminID).
		Int64("user_id", reward.UserID).
		Msg("Reward paid")
	return reward, nil
}

// Cancel voids a pending reward. Returns ErrInvalidState when the reward
// was already settled.
func (s *RewardService) Cancel(ctx context.Context, rewardID, adminID int64) (*model.Reward, error) {
	reward, err := s.rewards.Cancel(ctx, rewardID, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrRewardNotPending) {
			return nil, fmt.Errorf("reward %d already settled: %w", rewardID, ErrInvalidState)
		}
		return nil, err
	}

	log.Info().
		Int64("reward_id", rewardID).
		Int64("admin_id", adminID).
		Msg("Reward cancelled")
	return reward, nil
}
