package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
	"telegram-quiz-bot/internal/translate"
)

// ContentService manages admin-entered content: quiz questions, prophets'
// stories and the names-of-Allah library. Content is entered in Uzbek and
// machine-translated into the remaining languages at save time.
type ContentService struct {
	questionRepo *repository.QuestionRepository
	contentRepo  *repository.ContentRepository
	translator   translate.Translator
}

// NewContentService creates a new ContentService instance.
func NewContentService(questionRepo *repository.QuestionRepository, contentRepo *repository.ContentRepository, translator translate.Translator) *ContentService {
	return &ContentService{
		questionRepo: questionRepo,
		contentRepo:  contentRepo,
		translator:   translator,
	}
}

// AddQuestion localizes and stores a question entered in Uzbek.
// correctOption is 1-based. Translation failures degrade to the Uzbek
// text, never block the save.
func (s *ContentService) AddQuestion(ctx context.Context, textUZ string, optionsUZ [3]string, correctOption int, createdBy int64) (int64, error) {
	if strings.TrimSpace(textUZ) == "" {
		return 0, fmt.Errorf("empty question text: %w", ErrValidation)
	}
	for i, opt := range optionsUZ {
		if strings.TrimSpace(opt) == "" {
			return 0, fmt.Errorf("empty option %d: %w", i+1, ErrValidation)
		}
	}
	if correctOption < 1 || correctOption > 3 {
		return 0, fmt.Errorf("correct option out of range: %w", ErrValidation)
	}

	q := &model.Question{
		Text:          translate.Localize(ctx, s.translator, textUZ),
		CorrectOption: correctOption,
		CreatedBy:     createdBy,
	}
	for i, opt := range optionsUZ {
		q.Options[i] = translate.Localize(ctx, s.translator, opt)
	}

	id, err := s.questionRepo.Create(ctx, q)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("question_id", id).
		Int64("created_by", createdBy).
		Msg("Question added")
	return id, nil
}

// DeactivateQuestion soft-deletes a question.
func (s *ContentService) DeactivateQuestion(ctx context.Context, id int64) error {
	return s.questionRepo.Deactivate(ctx, id)
}

// AddProphet localizes and stores a prophet story with its audio file.
func (s *ContentService) AddProphet(ctx context.Context, nameUZ, audioFileID string) (int64, error) {
	if strings.TrimSpace(nameUZ) == "" {
		return 0, fmt.Errorf("empty prophet name: %w", ErrValidation)
	}
	if audioFileID == "" {
		return 0, fmt.Errorf("missing audio file: %w", ErrValidation)
	}

	id, err := s.contentRepo.CreateProphet(ctx, translate.Localize(ctx, s.translator, nameUZ), audioFileID)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("prophet_id", id).
		Msg("Prophet story added")
	return id, nil
}

// Prophets returns the prophets' stories library in insertion order.
func (s *ContentService) Prophets(ctx context.Context) ([]*model.Prophet, error) {
	return s.contentRepo.ListProphets(ctx)
}

// ProphetAudio returns the stored audio reference for a prophet.
func (s *ContentService) ProphetAudio(ctx context.Context, id int64) (string, error) {
	return s.contentRepo.GetProphetAudio(ctx, id)
}

// AllahNames returns the 99 names ordered by number.
func (s *ContentService) AllahNames(ctx context.Context) ([]*model.AllahName, error) {
	return s.contentRepo.ListAllahNames(ctx)
}

// AllahName returns one name entry by its number.
func (s *ContentService) AllahName(ctx context.Context, number int) (*model.AllahName, error) {
	return s.contentRepo.GetAllahName(ctx, number)
}
