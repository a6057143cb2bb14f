// Package session provides the in-memory registry of per-user conversational
// state. The registry is a disposable cache: it lives only for the process
// lifetime and is rebuilt lazily from the persistent store after a restart.
// A pending question lost to a restart simply cannot be scored.
package session

import (
	"sync"

	"telegram-quiz-bot/internal/model"
)

// State enumerates the conversational states a user can be in between
// messages. Zero value means no multi-step flow is in progress.
type State int

// Conversational states.
const (
	StateNone State = iota
	StateAwaitingName
	StateAwaitingCardNumber
	StateAwaitingCardHolder

	// Admin add-question flow.
	StateAdminAwaitingQuestion
	StateAdminAwaitingOptions
	StateAdminAwaitingCorrect
	StateAdminAwaitingConfirm

	// Admin add-prophet flow.
	StateAdminAwaitingProphetName
	StateAdminAwaitingProphetAudio

	// Admin payout flow: waiting for the proof photo.
	StateAdminAwaitingProof
)

// AnswerMode tags how the pending question expects its answer.
type AnswerMode int

// Answer modes.
const (
	ModeButtons AnswerMode = iota
	ModeFreeText
)

// PendingQuestion is the question currently shown to a user, kept so the
// answer can be scored without re-reading the store.
type PendingQuestion struct {
	QuestionID    int64
	CorrectOption int
	CorrectText   string
	Options       [3]string
	Mode          AnswerMode
}

// QuestionDraft accumulates the admin add-question conversation.
type QuestionDraft struct {
	TextUZ    string
	OptionsUZ [3]string
	Correct   int
}

// ProphetDraft accumulates the admin add-prophet conversation.
type ProphetDraft struct {
	NameUZ string
}

// Entry is one user's transient conversational state.
type Entry struct {
	Lang         model.Language
	Name         string
	State        State
	SalawatCount int

	Pending *PendingQuestion
	Seen    []int64

	// Staged card number while the holder name is being collected.
	CardNumber string

	// Admin drafts and payout context.
	Draft          *QuestionDraft
	Prophet        *ProphetDraft
	PayingRewardID int64
}

// Registry stores entries keyed by Telegram user ID behind get/put/delete
// semantics over a mutex-guarded map.
type Registry struct {
	mu      sync.RWMutex
	entries map[int64]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[int64]*Entry)}
}

// Get returns the entry for userID, or nil if none exists.
func (r *Registry) Get(userID int64) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[userID]
}

// GetOrCreate returns the entry for userID, creating an empty one if needed.
func (r *Registry) GetOrCreate(userID int64) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		e = &Entry{}
		r.entries[userID] = e
	}
	return e
}

// Put stores an entry for userID, replacing any existing one.
func (r *Registry) Put(userID int64, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = e
}

// Delete removes the entry for userID.
func (r *Registry) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}

// MarkSeen appends questionID to the user's seen list if not present.
func (e *Entry) MarkSeen(questionID int64) {
	for _, id := range e.Seen {
		if id == questionID {
			return
		}
	}
	e.Seen = append(e.Seen, questionID)
}

// ClearSeen resets the seen-question history.
func (e *Entry) ClearSeen() {
	e.Seen = nil
}

// TakePending returns the pending question and clears it. Clearing before
// scoring means a double-tapped answer button scores at most once.
func (e *Entry) TakePending() *PendingQuestion {
	p := e.Pending
	e.Pending = nil
	return p
}
