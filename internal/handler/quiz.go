package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/grader"
	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/pkg/lock"
	"telegram-quiz-bot/internal/repository"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// QuizHandler serves questions and scores both button and typed answers.
type QuizHandler struct {
	quiz     *service.QuizService
	rewards  *service.RewardService
	stats    *service.StatsService
	registry *session.Registry
	userLock *lock.UserLock
	notifier *Notifier
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(quiz *service.QuizService, rewards *service.RewardService, stats *service.StatsService, registry *session.Registry, userLock *lock.UserLock, notifier *Notifier) *QuizHandler {
	return &QuizHandler{
		quiz:     quiz,
		rewards:  rewards,
		stats:    stats,
		registry: registry,
		userLock: userLock,
		notifier: notifier,
	}
}

// HandleNewQuestion serves the next question from the menu.
func (h *QuizHandler) HandleNewQuestion(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	return h.userLock.WithLock(sender.ID, func() error {
		entry := h.registry.GetOrCreate(sender.ID)
		return h.sendQuestion(context.Background(), c, sender.ID, entry)
	})
}

// sendQuestion checks the lockout gate, draws a question and stores it
// as the user's pending question. Caller must hold the user lock.
func (h *QuizHandler) sendQuestion(ctx context.Context, c tele.Context, userID int64, entry *session.Entry) error {
	lang := entry.Lang

	locked, remaining, err := h.quiz.CheckLockout(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Lockout check failed")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}
	if locked {
		return c.Send(fmt.Sprintf(i18n.T(i18n.KeyWaitMessage, lang), remaining))
	}

	card, poolReset, err := h.quiz.NextQuestion(ctx, lang, entry.Seen)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.Send(i18n.T(i18n.KeyNoQuestions, lang))
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("Question draw failed")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}
	if poolReset {
		entry.ClearSeen()
		if err := c.Send(i18n.T(i18n.KeyAllDone, lang)); err != nil {
			return err
		}
	}

	entry.MarkSeen(card.ID)
	entry.Pending = &session.PendingQuestion{
		QuestionID:    card.ID,
		CorrectOption: card.CorrectOption,
		CorrectText:   card.Options[card.CorrectOption-1],
		Options:       card.Options,
		Mode:          session.ModeButtons,
	}

	text := fmt.Sprintf("%s:\n\n%s\n\n%s",
		i18n.T(i18n.KeyQuestionPrefix, lang),
		card.Text,
		i18n.T(i18n.KeyOptionsPrompt, lang),
	)
	text += h.progressFooter(ctx, userID, lang)

	return c.Send(text, BuildAnswerKeyboard(card.ID, card.Options))
}

// progressFooter renders the reward campaign progress block, empty when
// no session is open or on lookup failure.
func (h *QuizHandler) progressFooter(ctx context.Context, userID int64, lang model.Language) string {
	count, err := h.rewards.Progress(ctx, userID)
	if err != nil || count == 0 {
		return ""
	}
	target := h.rewards.Target()
	return fmt.Sprintf(i18n.T(i18n.KeyRewardProgress, lang), count, target, target-count)
}

// HandleAnswerCallback scores an option button press.
func (h *QuizHandler) HandleAnswerCallback(c tele.Context, data string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	parts := strings.Split(strings.TrimPrefix(data, CallbackAnswer), ":")
	if len(parts) != 2 {
		return nil
	}
	questionID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil
	}
	selected, err := strconv.Atoi(parts[1])
	if err != nil || selected < 1 || selected > 3 {
		return nil
	}

	return h.userLock.WithLock(sender.ID, func() error {
		ctx := context.Background()
		entry := h.registry.GetOrCreate(sender.ID)

		pending := entry.TakePending()
		if pending == nil || pending.QuestionID != questionID {
			// Stale button: already answered or lost to a restart.
			return c.Respond(&tele.CallbackResponse{Text: i18n.T(i18n.KeyUseMenu, entry.Lang)})
		}

		if err := c.Respond(&tele.CallbackResponse{}); err != nil {
			log.Debug().Err(err).Msg("Callback ack failed")
		}

		correct := grader.GradeButton(selected, pending.CorrectOption)
		return h.score(ctx, c, sender, entry, pending, selected, correct)
	})
}

// HandleFreeText scores a typed answer against the pending question.
// Caller has verified that a pending question exists.
func (h *QuizHandler) HandleFreeText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	return h.userLock.WithLock(sender.ID, func() error {
		ctx := context.Background()
		entry := h.registry.GetOrCreate(sender.ID)

		pending := entry.TakePending()
		if pending == nil {
			return c.Send(i18n.T(i18n.KeyUseMenu, entry.Lang))
		}

		correct := grader.GradeFreeText(c.Text(), pending.CorrectText)
		return h.score(ctx, c, sender, entry, pending, 0, correct)
	})
}

// score records one answer outcome and drives the session forward:
// next question on correct, lockout message on wrong, card collection
// on campaign completion. Caller must hold the user lock.
func (h *QuizHandler) score(ctx context.Context, c tele.Context, sender *tele.User, entry *session.Entry, pending *session.PendingQuestion, selected int, correct bool) error {
	lang := entry.Lang

	if _, err := h.stats.RecordAnswer(ctx, sender.ID, pending.QuestionID, selected, correct); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to record answer")
	}
	h.notifier.AnswerRecorded(sender.ID, entry.Name, pending.CorrectText, correct)

	if !correct {
		entry.ClearSeen()
		if err := h.rewards.RecordWrong(ctx, sender.ID); err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to record wrong answer")
			return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
		}

		msg := fmt.Sprintf(i18n.T(i18n.KeyWrongAnswer, lang), pending.CorrectOption)
		if err := c.Send(msg); err != nil {
			return err
		}

		_, remaining, err := h.quiz.CheckLockout(ctx, sender.ID)
		if err != nil {
			remaining = 0
		}
		return c.Send(fmt.Sprintf(i18n.T(i18n.KeyWaitMessage, lang), remaining))
	}

	result, err := h.rewards.RecordCorrect(ctx, sender.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to credit correct answer")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}

	if err := c.Send(i18n.T(i18n.KeyCorrectAnswer, lang)); err != nil {
		return err
	}

	if result.Completed {
		h.notifier.ChallengeCompleted(sender.ID, entry.Name, result.Reward.ID, result.Reward.Amount)
		if err := c.Send(i18n.T(i18n.KeyCongrats, lang)); err != nil {
			return err
		}
		entry.State = session.StateAwaitingCardNumber
		return c.Send(i18n.T(i18n.KeyCardPrompt, lang))
	}

	return h.sendQuestion(ctx, c, sender.ID, entry)
}

// HandleStats replies with the user's aggregate counters.
func (h *QuizHandler) HandleStats(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx := context.Background()
	entry := h.registry.GetOrCreate(sender.ID)

	stats, err := h.stats.UserStats(ctx, sender.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load stats")
		return c.Send(i18n.T(i18n.KeyGenericFailure, entry.Lang))
	}

	return c.Send(fmt.Sprintf(
		"📊\n✅ %d\n❌ %d\n📝 %d\n🔥 %d\n🏆 %d",
		stats.CorrectCount, stats.WrongCount, stats.TotalCount,
		stats.CurrentStreak, stats.BestStreak,
	))
}
