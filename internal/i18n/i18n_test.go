package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-quiz-bot/internal/model"
)

func TestAllKeysCoverAllLanguages(t *testing.T) {
	langs := []model.Language{model.LangUZ, model.LangRU, model.LangAR, model.LangEN}

	for key, byLang := range messages {
		for _, lang := range langs {
			s, ok := byLang[lang]
			assert.True(t, ok, "key %q missing language %q", key, lang)
			assert.NotEmpty(t, s, "key %q has empty text for %q", key, lang)
		}
	}
}

func TestFormatVerbsConsistentAcrossLanguages(t *testing.T) {
	for key, byLang := range messages {
		want := countVerbs(byLang[model.LangUZ])
		for lang, s := range byLang {
			assert.Equal(t, want, countVerbs(s),
				"key %q language %q has mismatched format verbs", key, lang)
		}
	}
}

func countVerbs(s string) int {
	return strings.Count(s, "%d") + strings.Count(s, "%s")
}

func TestTFallsBackToUzbek(t *testing.T) {
	assert.Equal(t, messages[KeyUseMenu][model.LangRU], T(KeyUseMenu, model.LangRU))
	assert.Equal(t, messages[KeyUseMenu][model.LangUZ], T(KeyUseMenu, "xx"))
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no_such_key", T(Key("no_such_key"), model.LangUZ))
}
