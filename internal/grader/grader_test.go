package grader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestGradeButton(t *testing.T) {
	assert.True(t, GradeButton(1, 1))
	assert.True(t, GradeButton(3, 3))
	assert.False(t, GradeButton(1, 2))
	assert.False(t, GradeButton(0, 1))
}

func TestGradeFreeText(t *testing.T) {
	tests := []struct {
		name       string
		submission string
		correct    string
		want       bool
	}{
		{"exact match", "Makkah", "Makkah", true},
		{"case insensitive", "makkah", "Makkah", true},
		{"numbered prefix stripped", "2. Makkah", "Makkah", true},
		{"prefix on correct side", "makkah", "2. Makkah", true},
		{"wrong answer", "madina", "Makkah", false},
		{"answer embedded in sentence", "the god allah is one", "Allah", true},
		{"token boundary", "hallah", "Allah", false},
		{"empty submission", "", "Makkah", false},
		{"whitespace submission", "   ", "Makkah", false},
		{"cyrillic exact", "Макка", "Макка", true},
		{"cyrillic embedded", "бу Макка шахри", "Макка", true},
		{"arabic exact", "مكة", "مكة", true},
		{"all important words", "muhammad alayhissalom", "Muhammad alayhissalom", true},
		{"one important word, long enough", "payg'ambarimiz muhammad", "hazrati muhammad", true},
		{"one important word, too short", "ali", "hazrati muhammad alayhissalom payg'ambarimiz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeFreeText(tt.submission, tt.correct))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2. Makkah", "makkah"},
		{"  Makkah  ", "makkah"},
		{"3) Madina", "madina"},
		{"Allah", "allah"},
		{"123.", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

// TestGradeFreeTextReflexiveProperty checks that any non-empty answer
// text grades as correct against itself, whatever the script.
func TestGradeFreeTextReflexiveProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[a-zА-Яа-я]{1,12}( [a-zА-Яа-я]{1,12}){0,3}`).Draw(rt, "text")

		if !GradeFreeText(text, text) {
			rt.Fatalf("text %q should match itself", text)
		}
	})
}

// TestGradeFreeTextPrefixInvarianceProperty checks that a leading
// "<n>. " prefix never changes the verdict.
func TestGradeFreeTextPrefixInvarianceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		answer := rapid.StringMatching(`[a-z]{4,12}`).Draw(rt, "answer")
		submission := rapid.StringMatching(`[a-z]{4,12}`).Draw(rt, "submission")
		n := rapid.IntRange(1, 9).Draw(rt, "n")

		plain := GradeFreeText(submission, answer)
		prefixed := GradeFreeText(string(rune('0'+n))+". "+submission, answer)

		if plain != prefixed {
			rt.Fatalf("prefix changed verdict for %q vs %q: %v != %v", submission, answer, plain, prefixed)
		}
	})
}

// TestGradeFreeTextNoSubstringLeakProperty checks that token containment
// never degenerates into raw substring matching: a strict superstring of
// the single-token answer with extra letters glued on must not match.
func TestGradeFreeTextNoSubstringLeakProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		answer := rapid.StringMatching(`[a-z]{4,10}`).Draw(rt, "answer")
		glue := rapid.StringMatching(`[a-z]{1,4}`).Draw(rt, "glue")

		if GradeFreeText(glue+answer, answer) {
			rt.Fatalf("glued token %q should not match %q", glue+answer, answer)
		}
	})
}
