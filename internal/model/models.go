// Package model defines the data models for the Telegram quiz bot.
package model

import "time"

// Language identifies one of the four UI languages.
type Language string

// Supported UI languages. Uzbek is the source language for question content;
// the other three are filled by machine translation at save time.
const (
	LangUZ Language = "UZ"
	LangRU Language = "RU"
	LangAR Language = "AR"
	LangEN Language = "EN"
)

// AllLanguages returns the supported languages in display order.
func AllLanguages() []Language {
	return []Language{LangUZ, LangRU, LangAR, LangEN}
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LangUZ, LangRU, LangAR, LangEN:
		return true
	}
	return false
}

// User represents a registered bot user.
type User struct {
	TelegramID   int64     `db:"telegram_id"`
	Username     string    `db:"username"`
	DisplayName  string    `db:"display_name"`
	Language     Language  `db:"language"`
	RegisteredAt time.Time `db:"registered_at"`
	IsActive     bool      `db:"is_active"`
}

// LocalizedText carries one string per supported language.
type LocalizedText struct {
	UZ string
	RU string
	AR string
	EN string
}

// Get returns the text for lang, falling back to Uzbek when the
// requested language has no content.
func (t LocalizedText) Get(lang Language) string {
	var s string
	switch lang {
	case LangRU:
		s = t.RU
	case LangAR:
		s = t.AR
	case LangEN:
		s = t.EN
	default:
		s = t.UZ
	}
	if s == "" {
		return t.UZ
	}
	return s
}

// Question holds one quiz question with text and three answer options
// in each supported language. Immutable once answered against.
type Question struct {
	ID            int64
	Text          LocalizedText
	Options       [3]LocalizedText
	CorrectOption int // 1..3
	IsActive      bool
	CreatedBy     int64
	CreatedAt     time.Time
}

// AnswerEvent is one row of the append-only answer log.
// SelectedOption is 0 when the answer was submitted as free text.
type AnswerEvent struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	QuestionID     int64     `db:"question_id"`
	SelectedOption int       `db:"selected_option"`
	IsCorrect      bool      `db:"is_correct"`
	AnsweredAt     time.Time `db:"answered_at"`
}

// UserStats holds per-user aggregate counters maintained incrementally
// from the answer log. Invariant: TotalCount == CorrectCount + WrongCount.
type UserStats struct {
	UserID        int64 `db:"user_id"`
	CorrectCount  int   `db:"correct_count"`
	WrongCount    int   `db:"wrong_count"`
	TotalCount    int   `db:"total_count"`
	CurrentStreak int   `db:"current_streak"`
	BestStreak    int   `db:"best_streak"`
}

// Session status values for the 20-question challenge.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// QuizSession tracks one attempt at the 20-consecutive-correct challenge.
// At most one session per user may hold status "active".
type QuizSession struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	StartedAt    time.Time  `db:"started_at"`
	EndedAt      *time.Time `db:"ended_at"`
	CorrectCount int        `db:"correct_count"`
	Status       string     `db:"status"`
	RewardPaid   bool       `db:"reward_paid"`
}

// Reward status values.
const (
	RewardPending   = "pending"
	RewardPaid      = "paid"
	RewardCancelled = "cancelled"
)

// Reward is a payout record tied to a completed session.
// Status moves pending->paid or pending->cancelled and is then terminal.
type Reward struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	SessionID    int64      `db:"session_id"`
	Amount       int64      `db:"amount"`
	Status       string     `db:"status"`
	PaidBy       *int64     `db:"paid_by"`
	PaidAt       *time.Time `db:"paid_at"`
	ProofPhotoID *string    `db:"proof_photo_id"`
	CreatedAt    time.Time  `db:"created_at"`
}

// UserCard holds the bank card details a user submits after completing
// the challenge. One live record per user, replaced on resubmission.
type UserCard struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	CardNumber  string     `db:"card_number"`
	CardHolder  string     `db:"card_holder"`
	SubmittedAt time.Time  `db:"submitted_at"`
	Verified    bool       `db:"verified"`
	VerifiedBy  *int64     `db:"verified_by"`
	VerifiedAt  *time.Time `db:"verified_at"`
}

// WaitLock is the per-user cooldown row created after a wrong answer.
type WaitLock struct {
	UserID    int64     `db:"user_id"`
	WaitUntil time.Time `db:"wait_until"`
}

// Prophet is one entry of the prophets' stories library, served as a
// stored Telegram audio file.
type Prophet struct {
	ID          int64
	Name        LocalizedText
	AudioFileID string
	CreatedAt   time.Time
}

// AllahName is one of the 99 names with per-language name and description.
type AllahName struct {
	ID          int64
	Number      int
	Name        LocalizedText
	Description LocalizedText
}

// UserAnswerDetail joins an answer event with user and question context
// for the admin answer listings.
type UserAnswerDetail struct {
	Event       AnswerEvent
	DisplayName string
	Username    string
	QuestionUZ  string
}

// PendingReward joins a pending reward with the recipient's identity and
// card details for the admin payout queue.
type PendingReward struct {
	Reward      Reward
	DisplayName string
	Username    string
	CardNumber  string
	CardHolder  string
}

// QuestionCounts holds per-language active question totals for the
// admin statistics view.
type QuestionCounts struct {
	UZ int
	RU int
	AR int
	EN int
}
