package service

import (
	"context"
	"fmt"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
)

// AccountService handles user onboarding: registration on first contact,
// display name collection and language preference.
type AccountService struct {
	userRepo *repository.UserRepository
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(userRepo *repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// EnsureUser ensures a user exists, creating one on first contact.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, created, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// SetDisplayName stores the name collected during onboarding. The name
// may be re-set later through the same flow.
func (s *AccountService) SetDisplayName(ctx context.Context, telegramID int64, name string) error {
	if err := s.userRepo.SetDisplayName(ctx, telegramID, name); err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}
	return nil
}

// SetLanguage stores the user's preferred UI language.
func (s *AccountService) SetLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	if !lang.Valid() {
		lang = model.LangUZ
	}
	if err := s.userRepo.SetLanguage(ctx, telegramID, lang); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	return nil
}

// Language returns the user's stored language, defaulting to Uzbek for
// unknown users so a fresh registry entry always has a usable language.
func (s *AccountService) Language(ctx context.Context, telegramID int64) model.Language {
	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return model.LangUZ
	}
	if !user.Language.Valid() {
		return model.LangUZ
	}
	return user.Language
}

// ListUsers returns users for the admin listing, newest first.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}
