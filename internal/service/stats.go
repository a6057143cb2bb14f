package service

import (
	"context"
	"fmt"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
)

// StatsService records answer outcomes and serves the user and admin
// statistics views.
type StatsService struct {
	answerRepo   *repository.AnswerRepository
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, questionRepo *repository.QuestionRepository) *StatsService {
	return &StatsService{
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		questionRepo: questionRepo,
	}
}

// RecordAnswer appends the answer event and folds it into the user's
// aggregate counters. selectedOption is 0 for free-text submissions.
func (s *StatsService) RecordAnswer(ctx context.Context, userID, questionID int64, selectedOption int, isCorrect bool) (*model.UserStats, error) {
	if _, err := s.answerRepo.Create(ctx, userID, questionID, selectedOption, isCorrect); err != nil {
		return nil, fmt.Errorf("failed to log answer: %w", err)
	}

	stats, err := s.answerRepo.RecordStat(ctx, userID, isCorrect)
	if err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}
	return stats, nil
}

// UserStats returns a user's aggregate counters, zero-valued for users
// with no answers yet.
func (s *StatsService) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	return s.answerRepo.GetStats(ctx, userID)
}

// AdminOverview holds the headline numbers for the admin statistics view.
type AdminOverview struct {
	TotalUsers     int
	UsersToday     int
	QuestionCounts model.QuestionCounts
}

// Overview collects the admin dashboard aggregates.
func (s *StatsService) Overview(ctx context.Context) (*AdminOverview, error) {
	total, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.userRepo.CountToday(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.questionRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		TotalUsers:     total,
		UsersToday:     today,
		QuestionCounts: *counts,
	}, nil
}

// TopAnswerers returns users ranked by correct answer count.
func (s *StatsService) TopAnswerers(ctx context.Context, limit int) ([]*model.UserStats, error) {
	return s.answerRepo.TopAnswerers(ctx, limit)
}

// RecentAnswers returns the latest answers across all users for the
// admin activity view.
func (s *StatsService) RecentAnswers(ctx context.Context, limit int) ([]*model.UserAnswerDetail, error) {
	return s.answerRepo.ListRecent(ctx, limit)
}

// UserAnswers returns one user's recent answers with question context.
func (s *StatsService) UserAnswers(ctx context.Context, userID int64, limit int) ([]*model.UserAnswerDetail, error) {
	return s.answerRepo.ListByUser(ctx, userID, limit)
}
