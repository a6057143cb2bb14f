package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Validation runs before any translation or storage, so a nil-repo
// service is enough to exercise the rejects.
func TestAddQuestionValidation(t *testing.T) {
	svc := NewContentService(nil, nil, nil)
	ctx := context.Background()

	options := [3]string{"Quddus", "Makka", "Madina"}

	_, err := svc.AddQuestion(ctx, "", options, 1, 42)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddQuestion(ctx, "   ", options, 1, 42)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddQuestion(ctx, "Savol?", [3]string{"a", "", "c"}, 1, 42)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddQuestion(ctx, "Savol?", options, 0, 42)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddQuestion(ctx, "Savol?", options, 4, 42)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddProphetValidation(t *testing.T) {
	svc := NewContentService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.AddProphet(ctx, "", "audio-file-id")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddProphet(ctx, "Muso alayhissalom", "")
	assert.ErrorIs(t, err, ErrValidation)
}
