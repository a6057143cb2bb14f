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

// fakeLockStore is an in-memory LockStore.
type fakeLockStore struct {
	locks map[int64]time.Time
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{locks: make(map[int64]time.Time)}
}

func (f *fakeLockStore) Set(_ context.Context, userID int64, until time.Time) error {
	f.locks[userID] = until
	return nil
}

func (f *fakeLockStore) Get(_ context.Context, userID int64) (*model.WaitLock, error) {
	until, ok := f.locks[userID]
	if !ok {
		return nil, nil
	}
	return &model.WaitLock{UserID: userID, WaitUntil: until}, nil
}

func (f *fakeLockStore) Delete(_ context.Context, userID int64) error {
	delete(f.locks, userID)
	return nil
}

// fakeQuestionSource serves per-language question pools in order.
type fakeQuestionSource struct {
	pools map[model.Language][]*repository.QuestionCard
}

func (f *fakeQuestionSource) RandomActive(_ context.Context, lang model.Language, excluded []int64) (*repository.QuestionCard, error) {
	skip := make(map[int64]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	for _, card := range f.pools[lang] {
		if !skip[card.ID] {
			return card, nil
		}
	}
	return nil, repository.ErrQuestionNotFound
}

func card(id int64) *repository.QuestionCard {
	return &repository.QuestionCard{ID: id, Text: "q", Options: [3]string{"a", "b", "c"}, CorrectOption: 1}
}

func newTestQuizService(pools map[model.Language][]*repository.QuestionCard, waitMinutes int) (*QuizService, *fakeLockStore, *time.Time) {
	locks := newFakeLockStore()
	svc := NewQuizService(&fakeQuestionSource{pools: pools}, locks, waitMinutes)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, locks, &now
}

func TestLockoutLifecycle(t *testing.T) {
	svc, locks, now := newTestQuizService(nil, 30)
	ctx := context.Background()

	locked, remaining, err := svc.CheckLockout(ctx, 100)
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Zero(t, remaining)

	require.NoError(t, svc.StartLockout(ctx, 100))

	locked, remaining, err = svc.CheckLockout(ctx, 100)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 30, remaining)

	// Just before expiry the gate still holds.
	*now = now.Add(29*time.Minute + 30*time.Second)
	locked, remaining, err = svc.CheckLockout(ctx, 100)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 1, remaining, "sub-minute remainder reports one minute")

	// After expiry the row is deleted lazily.
	*now = now.Add(time.Minute)
	locked, remaining, err = svc.CheckLockout(ctx, 100)
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Zero(t, remaining)
	assert.Empty(t, locks.locks)
}

func TestStartLockoutOverwrites(t *testing.T) {
	svc, locks, now := newTestQuizService(nil, 30)
	ctx := context.Background()

	require.NoError(t, svc.StartLockout(ctx, 100))
	first := locks.locks[100]

	*now = now.Add(10 * time.Minute)
	require.NoError(t, svc.StartLockout(ctx, 100))

	assert.Len(t, locks.locks, 1)
	assert.True(t, locks.locks[100].After(first), "restart replaces, never stacks")
}

func TestNextQuestionExcludesSeen(t *testing.T) {
	pools := map[model.Language][]*repository.QuestionCard{
		model.LangUZ: {card(1), card(2), card(3)},
	}
	svc, _, _ := newTestQuizService(pools, 30)

	got, reset, err := svc.NextQuestion(context.Background(), model.LangUZ, []int64{1, 2})
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, int64(3), got.ID)
}

func TestNextQuestionFallsBackToUzbek(t *testing.T) {
	pools := map[model.Language][]*repository.QuestionCard{
		model.LangUZ: {card(1)},
	}
	svc, _, _ := newTestQuizService(pools, 30)

	got, reset, err := svc.NextQuestion(context.Background(), model.LangAR, nil)
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, int64(1), got.ID)
}

func TestNextQuestionResetsExhaustedPool(t *testing.T) {
	pools := map[model.Language][]*repository.QuestionCard{
		model.LangUZ: {card(1), card(2)},
	}
	svc, _, _ := newTestQuizService(pools, 30)

	got, reset, err := svc.NextQuestion(context.Background(), model.LangUZ, []int64{1, 2})
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Equal(t, int64(1), got.ID)
}

func TestNextQuestionEmptyStore(t *testing.T) {
	svc, _, _ := newTestQuizService(nil, 30)

	_, _, err := svc.NextQuestion(context.Background(), model.LangUZ, nil)
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)

	// No seen history and nothing to draw: reset must not loop.
	_, _, err = svc.NextQuestion(context.Background(), model.LangRU, []int64{5})
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
}

// TestLockoutRemainingProperty checks that before expiry the reported
// remainder is within (0, waitMinutes] and afterwards the gate is open.
func TestLockoutRemainingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		waitMinutes := rapid.IntRange(1, 120).Draw(rt, "waitMinutes")
		elapsed := rapid.IntRange(0, 2*waitMinutes*60).Draw(rt, "elapsedSeconds")

		svc, locks, now := newTestQuizService(nil, waitMinutes)
		ctx := context.Background()

		if err := svc.StartLockout(ctx, 7); err != nil {
			rt.Fatalf("StartLockout: %v", err)
		}

		*now = now.Add(time.Duration(elapsed) * time.Second)
		locked, remaining, err := svc.CheckLockout(ctx, 7)
		if err != nil {
			rt.Fatalf("CheckLockout: %v", err)
		}

		if elapsed < waitMinutes*60 {
			if !locked {
				rt.Fatalf("should be locked %ds into a %dmin wait", elapsed, waitMinutes)
			}
			if remaining < 1 || remaining > waitMinutes {
				rt.Fatalf("remaining %d out of range (0, %d]", remaining, waitMinutes)
			}
		} else {
			if locked || remaining != 0 {
				rt.Fatalf("should be unlocked after %ds of a %dmin wait", elapsed, waitMinutes)
			}
			if len(locks.locks) != 0 {
				rt.Fatal("expired lock row should be deleted")
			}
		}
	})
}
