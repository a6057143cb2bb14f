package handler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-quiz-bot/internal/model"
)

func TestMatchMenuAcrossLanguages(t *testing.T) {
	// The pressed button may predate a language change, so every label
	// must resolve regardless of the user's current language.
	action, ok := MatchMenu("❓ Savollar")
	require.True(t, ok)
	assert.Equal(t, ActionQuestions, action)

	action, ok = MatchMenu("❓ Вопросы")
	require.True(t, ok)
	assert.Equal(t, ActionQuestions, action)

	action, ok = MatchMenu("📿 أذكار اليومية")
	require.True(t, ok)
	assert.Equal(t, ActionDailyZikr, action)

	action, ok = MatchMenu("💰 Mukofotlar")
	require.True(t, ok)
	assert.Equal(t, ActionAdminRewards, action)

	_, ok = MatchMenu("free text answer")
	assert.False(t, ok)
	_, ok = MatchMenu("")
	assert.False(t, ok)
}

func TestMenuLabelsUnambiguous(t *testing.T) {
	seen := make(map[string]MenuAction)
	for action, byLang := range menuLabels {
		for lang, label := range byLang {
			prev, dup := seen[label]
			assert.False(t, dup, "label %q (%s) used by both %v and %v", label, lang, prev, action)
			seen[label] = action
		}
	}
}

func TestUserActionsFullyLocalized(t *testing.T) {
	langs := []model.Language{model.LangUZ, model.LangRU, model.LangAR, model.LangEN}
	userActions := []MenuAction{ActionQuestions, ActionProphets, ActionDailyZikr, ActionChangeLang, ActionNewQuestion}

	for _, action := range userActions {
		for _, lang := range langs {
			assert.NotEmpty(t, menuLabels[action][lang], "action %v missing label for %q", action, lang)
		}
	}
}

func TestMatchLanguage(t *testing.T) {
	lang, ok := MatchLanguage("🇺🇿 O'zbek")
	require.True(t, ok)
	assert.Equal(t, model.LangUZ, lang)

	lang, ok = MatchLanguage("🇸🇦 العربية")
	require.True(t, ok)
	assert.Equal(t, model.LangAR, lang)

	_, ok = MatchLanguage("O'zbek")
	assert.False(t, ok, "labels match exactly, flag included")
}

func TestIsSalawatButton(t *testing.T) {
	for step := 1; step <= 10; step++ {
		markup := BuildSalawatKeyboard(step)
		label := markup.ReplyKeyboard[0][0].Text
		assert.True(t, IsSalawatButton(label), "step %d label %q", step, label)
		assert.Contains(t, label, fmt.Sprintf("(%d/10)", step))
	}

	assert.False(t, IsSalawatButton("❓ Savollar"))
}

func TestBuildAnswerKeyboard(t *testing.T) {
	markup := BuildAnswerKeyboard(42, [3]string{"Quddus", "Makka", "Madina"})

	require.Len(t, markup.InlineKeyboard, 3)
	for i, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		assert.Equal(t, fmt.Sprintf("%s%d:%d", CallbackAnswer, 42, i+1), row[0].Unique)
	}
	assert.Equal(t, "2. Makka", markup.InlineKeyboard[1][0].Text)
}

func TestBuildAllahNamesKeyboardPagination(t *testing.T) {
	names := make([]NameButton, 25)
	for i := range names {
		names[i] = NameButton{Number: i + 1, Label: fmt.Sprintf("Name %d", i+1)}
	}

	// First page: a page indicator plus "next" only.
	markup := BuildAllahNamesKeyboard(names[:AllahNamesPerPage], 0, 3)
	rows := markup.InlineKeyboard
	nav := rows[len(rows)-1]
	require.Len(t, nav, 2)
	assert.Equal(t, "1/3", nav[0].Text)
	assert.Equal(t, CallbackAllahPage+"1", nav[1].Unique)

	// Names pack two per row above the nav row.
	assert.Len(t, rows[0], 2)
	assert.Equal(t, CallbackAllahName+"1", rows[0][0].Unique)

	// Middle page gets both directions.
	markup = BuildAllahNamesKeyboard(names[AllahNamesPerPage:2*AllahNamesPerPage], 1, 3)
	rows = markup.InlineKeyboard
	assert.Len(t, rows[len(rows)-1], 3)

	// Last page: "prev" plus the indicator.
	markup = BuildAllahNamesKeyboard(names[2*AllahNamesPerPage:], 2, 3)
	rows = markup.InlineKeyboard
	nav = rows[len(rows)-1]
	require.Len(t, nav, 2)
	assert.Equal(t, CallbackAllahPage+"1", nav[0].Unique)
	assert.Equal(t, "3/3", nav[1].Text)
}

func TestBuildMainMenuKeyboardLocalized(t *testing.T) {
	markup := BuildMainMenuKeyboard(model.LangRU)
	assert.Equal(t, "❓ Вопросы", markup.ReplyKeyboard[0][0].Text)

	// Unknown language falls back to Uzbek labels.
	markup = BuildMainMenuKeyboard("xx")
	assert.Equal(t, "❓ Savollar", markup.ReplyKeyboard[0][0].Text)
}
