package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
)

// QuestionSource is the slice of the question repository the quiz
// service needs. Kept small so tests can substitute an in-memory pool.
type QuestionSource interface {
	RandomActive(ctx context.Context, lang model.Language, excluded []int64) (*repository.QuestionCard, error)
}

// LockStore is the persistence surface of the wait-lockout gate.
type LockStore interface {
	Set(ctx context.Context, userID int64, until time.Time) error
	Get(ctx context.Context, userID int64) (*model.WaitLock, error)
	Delete(ctx context.Context, userID int64) error
}

// QuizService serves questions and enforces the post-wrong-answer
// cooldown before a user may request another one.
type QuizService struct {
	questions QuestionSource
	locks     LockStore
	waitTime  time.Duration
	now       func() time.Time
}

// NewQuizService creates a new QuizService instance.
func NewQuizService(questions QuestionSource, locks LockStore, waitMinutes int) *QuizService {
	return &QuizService{
		questions: questions,
		locks:     locks,
		waitTime:  time.Duration(waitMinutes) * time.Minute,
		now:       time.Now,
	}
}

// StartLockout upserts the user's cooldown ending waitMinutes from now.
// Any prior lock is overwritten, never stacked.
func (s *QuizService) StartLockout(ctx context.Context, userID int64) error {
	until := s.now().Add(s.waitTime)
	if err := s.locks.Set(ctx, userID, until); err != nil {
		return fmt.Errorf("failed to start lockout: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Time("wait_until", until).
		Msg("Lockout started")
	return nil
}

// CheckLockout reports whether the user is locked and the remaining
// minutes. An expired lock is deleted as a side effect; there is no
// background timer, the check is lazy on each question request.
func (s *QuizService) CheckLockout(ctx context.Context, userID int64) (bool, int, error) {
	lock, err := s.locks.Get(ctx, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check lockout: %w", err)
	}
	if lock == nil {
		return false, 0, nil
	}

	now := s.now()
	if !now.Before(lock.WaitUntil) {
		if err := s.locks.Delete(ctx, userID); err != nil {
			return false, 0, err
		}
		return false, 0, nil
	}

	remaining := int(lock.WaitUntil.Sub(now).Minutes())
	if remaining < 1 {
		remaining = 1
	}
	return true, remaining, nil
}

// NextQuestion draws a random unseen active question in lang, falling
// back to Uzbek when lang has no remaining questions. When the whole
// pool is exhausted the seen history is abandoned and the draw repeats
// unconstrained; poolReset reports that to the caller so it can clear
// the user's seen list. Returns repository.ErrQuestionNotFound when no
// active questions exist at all.
func (s *QuizService) NextQuestion(ctx context.Context, lang model.Language, seen []int64) (card *repository.QuestionCard, poolReset bool, err error) {
	card, err = s.draw(ctx, lang, seen)
	if err == nil {
		return card, false, nil
	}
	if !errors.Is(err, repository.ErrQuestionNotFound) {
		return nil, false, err
	}

	if len(seen) == 0 {
		return nil, false, err
	}

	log.Debug().
		Str("lang", string(lang)).
		Int("seen", len(seen)).
		Msg("Question pool exhausted, resetting seen history")

	card, err = s.draw(ctx, lang, nil)
	if err != nil {
		return nil, false, err
	}
	return card, true, nil
}

// draw tries the requested language first, then Uzbek.
func (s *QuizService) draw(ctx context.Context, lang model.Language, seen []int64) (*repository.QuestionCard, error) {
	card, err := s.questions.RandomActive(ctx, lang, seen)
	if err == nil || !errors.Is(err, repository.ErrQuestionNotFound) {
		return card, err
	}
	if lang == model.LangUZ {
		return nil, err
	}
	return s.questions.RandomActive(ctx, model.LangUZ, seen)
}
