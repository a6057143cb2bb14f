package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/repository"
)

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	sessions map[int64]*model.QuizSession
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*model.QuizSession)}
}

func (f *fakeSessionStore) GetActive(_ context.Context, userID int64) (*model.QuizSession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == model.SessionActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNoActiveSession
}

func (f *fakeSessionStore) Start(_ context.Context, userID int64) (*model.QuizSession, error) {
	f.nextID++
	s := &model.QuizSession{
		ID:        f.nextID,
		UserID:    userID,
		StartedAt: time.Now(),
		Status:    model.SessionActive,
	}
	f.sessions[s.ID] = s
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) IncrementCorrect(_ context.Context, sessionID int64) (int, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != model.SessionActive {
		return 0, repository.ErrNoActiveSession
	}
	s.CorrectCount++
	return s.CorrectCount, nil
}

func (f *fakeSessionStore) Finish(_ context.Context, sessionID int64, status string) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != model.SessionActive {
		return repository.ErrNoActiveSession
	}
	now := time.Now()
	s.Status = status
	s.EndedAt = &now
	return nil
}

func (f *fakeSessionStore) MarkRewardPaid(_ context.Context, sessionID int64) error {
	if s, ok := f.sessions[sessionID]; ok {
		s.RewardPaid = true
	}
	return nil
}

// fakeRewardStore is an in-memory RewardStore.
type fakeRewardStore struct {
	rewards map[int64]*model.Reward
	cards   map[int64]*model.UserCard
	nextID  int64
}

func newFakeRewardStore() *fakeRewardStore {
	return &fakeRewardStore{
		rewards: make(map[int64]*model.Reward),
		cards:   make(map[int64]*model.UserCard),
	}
}

func (f *fakeRewardStore) Create(_ context.Context, userID, sessionID, amount int64) (*model.Reward, error) {
	f.nextID++
	r := &model.Reward{
		ID:        f.nextID,
		UserID:    userID,
		SessionID: sessionID,
		Amount:    amount,
		Status:    model.RewardPending,
		CreatedAt: time.Now(),
	}
	f.rewards[r.ID] = r
	copied := *r
	return &copied, nil
}

func (f *fakeRewardStore) GetByID(_ context.Context, id int64) (*model.Reward, error) {
	r, ok := f.rewards[id]
	if !ok {
		return nil, repository.ErrRewardNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRewardStore) MarkPaid(_ context.Context, id, adminID int64, proofPhotoID string) (*model.Reward, error) {
	r, ok := f.rewards[id]
	if !ok {
		return nil, repository.ErrRewardNotFound
	}
	if r.Status != model.RewardPending {
		return nil, repository.ErrRewardNotPending
	}
	now := time.Now()
	r.Status = model.RewardPaid
	r.PaidBy = &adminID
	r.PaidAt = &now
	r.ProofPhotoID = &proofPhotoID
	copied := *r
	return &copied, nil
}

func (f *fakeRewardStore) Cancel(_ context.Context, id, adminID int64) (*model.Reward, error) {
	r, ok := f.rewards[id]
	if !ok {
		return nil, repository.ErrRewardNotFound
	}
	if r.Status != model.RewardPending {
		return nil, repository.ErrRewardNotPending
	}
	r.Status = model.RewardCancelled
	r.PaidBy = &adminID
	copied := *r
	return &copied, nil
}

func (f *fakeRewardStore) ListPending(_ context.Context) ([]*model.PendingReward, error) {
	var out []*model.PendingReward
	for _, r := range f.rewards {
		if r.Status == model.RewardPending {
			out = append(out, &model.PendingReward{Reward: *r})
		}
	}
	return out, nil
}

func (f *fakeRewardStore) ListByUser(_ context.Context, userID int64) ([]*model.Reward, error) {
	var out []*model.Reward
	for _, r := range f.rewards {
		if r.UserID == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRewardStore) UpsertCard(_ context.Context, userID int64, cardNumber, cardHolder string) (*model.UserCard, error) {
	card := &model.UserCard{
		ID:          userID,
		UserID:      userID,
		CardNumber:  cardNumber,
		CardHolder:  cardHolder,
		SubmittedAt: time.Now(),
	}
	f.cards[userID] = card
	copied := *card
	return &copied, nil
}

func (f *fakeRewardStore) GetCard(_ context.Context, userID int64) (*model.UserCard, error) {
	card, ok := f.cards[userID]
	if !ok {
		return nil, nil
	}
	copied := *card
	return &copied, nil
}

// fakeLockouter records lockout starts.
type fakeLockouter struct {
	locked map[int64]int
}

func newFakeLockouter() *fakeLockouter {
	return &fakeLockouter{locked: make(map[int64]int)}
}

func (f *fakeLockouter) StartLockout(_ context.Context, userID int64) error {
	f.locked[userID]++
	return nil
}

func newTestRewardService(target int) (*RewardService, *fakeSessionStore, *fakeRewardStore, *fakeLockouter) {
	sessions := newFakeSessionStore()
	rewards := newFakeRewardStore()
	lockouts := newFakeLockouter()
	return NewRewardService(sessions, rewards, lockouts, target, 200000), sessions, rewards, lockouts
}

func TestRecordCorrectProgression(t *testing.T) {
	svc, _, rewards, _ := newTestRewardService(20)
	ctx := context.Background()

	for i := 1; i < 20; i++ {
		result, err := svc.RecordCorrect(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, i, result.CorrectCount)
		assert.False(t, result.Completed)
		assert.Nil(t, result.Reward)
	}

	result, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, result.CorrectCount)
	assert.True(t, result.Completed)
	require.NotNil(t, result.Reward)
	assert.Equal(t, model.RewardPending, result.Reward.Status)
	assert.Equal(t, int64(200000), result.Reward.Amount)
	assert.Equal(t, model.SessionCompleted, result.Session.Status)

	assert.Len(t, rewards.rewards, 1, "exactly one reward per completed session")
}

func TestRecordCorrectAfterCompletionOpensFreshSession(t *testing.T) {
	svc, _, _, _ := newTestRewardService(2)
	ctx := context.Background()

	_, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	result, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	require.True(t, result.Completed)

	// Completed session is closed; the next correct answer starts over.
	result, err = svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.False(t, result.Completed)
}

func TestRecordWrongFailsSessionAndLocks(t *testing.T) {
	svc, sessions, rewards, lockouts := newTestRewardService(20)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := svc.RecordCorrect(ctx, 100)
		require.NoError(t, err)
	}

	require.NoError(t, svc.RecordWrong(ctx, 100))

	_, err := sessions.GetActive(ctx, 100)
	assert.ErrorIs(t, err, repository.ErrNoActiveSession)
	assert.Equal(t, 1, lockouts.locked[100])
	assert.Empty(t, rewards.rewards, "failed session issues no reward")

	// Progress is not resumed.
	result, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestRecordWrongWithoutSessionStillLocks(t *testing.T) {
	svc, _, _, lockouts := newTestRewardService(20)

	require.NoError(t, svc.RecordWrong(context.Background(), 100))
	assert.Equal(t, 1, lockouts.locked[100])
}

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "8600123456789012", "8600123456789012", false},
		{"with spaces", "8600 1234 5678 9012", "8600123456789012", false},
		{"too short", "123", "", true},
		{"almost long enough", "860012345678901", "", true},
		{"letters", "8600abcd56789012", "", true},
		{"long", "86001234567890123", "86001234567890123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCardNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCardHolder(t *testing.T) {
	_, err := ValidateCardHolder("AB")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ValidateCardHolder("    ")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := ValidateCardHolder("  ABDULLA KARIMOV  ")
	require.NoError(t, err)
	assert.Equal(t, "ABDULLA KARIMOV", got)
}

func TestSubmitCard(t *testing.T) {
	svc, _, rewards, _ := newTestRewardService(20)
	ctx := context.Background()

	card, err := svc.SubmitCard(ctx, 100, "8600 1234 5678 9012", "ABDULLA KARIMOV")
	require.NoError(t, err)
	assert.Equal(t, "8600123456789012", card.CardNumber)
	assert.Equal(t, "ABDULLA KARIMOV", card.CardHolder)

	// Resubmission replaces, not duplicates.
	_, err = svc.SubmitCard(ctx, 100, "9860123456789012", "KARIMOV ABDULLA")
	require.NoError(t, err)
	assert.Len(t, rewards.cards, 1)

	_, err = svc.SubmitCard(ctx, 100, "123", "ABDULLA KARIMOV")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMarkPaidTerminal(t *testing.T) {
	svc, sessions, _, _ := newTestRewardService(1)
	ctx := context.Background()

	result, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	require.True(t, result.Completed)
	rewardID := result.Reward.ID

	paid, err := svc.MarkPaid(ctx, rewardID, 999, "photo-file-id")
	require.NoError(t, err)
	assert.Equal(t, model.RewardPaid, paid.Status)
	require.NotNil(t, paid.PaidBy)
	assert.Equal(t, int64(999), *paid.PaidBy)
	assert.True(t, sessions.sessions[paid.SessionID].RewardPaid)

	// Already settled: both transitions refuse.
	_, err = svc.MarkPaid(ctx, rewardID, 999, "photo-file-id")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Cancel(ctx, rewardID, 999)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelTerminal(t *testing.T) {
	svc, _, _, _ := newTestRewardService(1)
	ctx := context.Background()

	result, err := svc.RecordCorrect(ctx, 100)
	require.NoError(t, err)
	rewardID := result.Reward.ID

	cancelled, err := svc.Cancel(ctx, rewardID, 999)
	require.NoError(t, err)
	assert.Equal(t, model.RewardCancelled, cancelled.Status)

	_, err = svc.MarkPaid(ctx, rewardID, 999, "photo")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMarkPaidUnknownReward(t *testing.T) {
	svc, _, _, _ := newTestRewardService(1)

	_, err := svc.MarkPaid(context.Background(), 42, 999, "photo")
	assert.ErrorIs(t, err, repository.ErrRewardNotFound)
}

// TestRewardCampaignProperty replays random answer sequences and checks
// the campaign invariants: completion exactly at the target, one pending
// reward per completion, and a fresh session after every wrong answer.
func TestRewardCampaignProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		target := rapid.IntRange(1, 30).Draw(rt, "target")
		svc, _, rewards, lockouts := newTestRewardService(target)
		ctx := context.Background()

		numAnswers := rapid.IntRange(1, 100).Draw(rt, "numAnswers")

		completions := 0
		wrongs := 0
		streak := 0
		for i := 0; i < numAnswers; i++ {
			if rapid.Bool().Draw(rt, "correct") {
				result, err := svc.RecordCorrect(ctx, 7)
				if err != nil {
					rt.Fatalf("RecordCorrect: %v", err)
				}
				streak++
				if streak < target {
					if result.Completed || result.CorrectCount != streak {
						rt.Fatalf("unexpected completion at streak %d (target %d)", streak, target)
					}
				} else {
					if !result.Completed || result.Reward == nil {
						rt.Fatalf("expected completion at streak %d (target %d)", streak, target)
					}
					completions++
					streak = 0
				}
			} else {
				if err := svc.RecordWrong(ctx, 7); err != nil {
					rt.Fatalf("RecordWrong: %v", err)
				}
				wrongs++
				streak = 0
			}
		}

		if len(rewards.rewards) != completions {
			rt.Fatalf("expected %d rewards, got %d", completions, len(rewards.rewards))
		}
		if lockouts.locked[7] != wrongs {
			rt.Fatalf("expected %d lockouts, got %d", wrongs, lockouts.locked[7])
		}
	})
}
