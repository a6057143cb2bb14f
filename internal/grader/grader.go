// Package grader decides whether a submitted answer is correct. Button
// answers are exact index comparisons; free-text answers are judged by a
// deliberately lenient heuristic that tolerates typing across the Latin,
// Cyrillic and Arabic scripts. The heuristic trades occasional misjudged
// answers for leniency; thresholds below are tunable.
package grader

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ImportantWordMinLen is the exclusive length bound below which a token is
// too short to count as an "important word" of the correct answer.
const ImportantWordMinLen = 3

// GradeButton grades an explicit option index against the stored correct
// option (both 1..3).
func GradeButton(selected, correct int) bool {
	return selected == correct
}

// GradeFreeText grades arbitrary user-typed text against the stored
// correct option text. The submission is correct when any of:
//   - exact match after normalization,
//   - token containment in either direction,
//   - the submission carries every important word of the correct text,
//   - the submission carries at least one important word and is not
//     drastically shorter than the correct text.
//
// Containment is token-based, not raw substring: "hallah" does not match
// "allah" because they are different tokens.
func GradeFreeText(submission, correctText string) bool {
	sub := Normalize(submission)
	corr := Normalize(correctText)

	if sub == "" || corr == "" {
		return false
	}

	if sub == corr {
		return true
	}

	subTokens := tokenize(sub)
	corrTokens := tokenize(corr)

	if containsAll(subTokens, corrTokens) || containsAll(corrTokens, subTokens) {
		return true
	}

	important := importantWords(corrTokens)
	if len(important) == 0 {
		return false
	}

	matched := 0
	for _, w := range important {
		if hasToken(subTokens, w) {
			matched++
		}
	}

	if matched == len(important) {
		return true
	}

	// One important word is enough if the submission is at least half as
	// long as the correct text.
	if matched > 0 && utf8.RuneCountInString(sub)*2 >= utf8.RuneCountInString(corr) {
		return true
	}

	return false
}

// Normalize lowercases, trims, and strips a leading numeric/punctuation
// prefix such as "2. " from option texts.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(stripPrefix(s))
}

// stripPrefix removes leading digits, punctuation and spaces, so that
// "2. makkah" and "makkah" normalize identically.
func stripPrefix(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

// tokenize splits normalized text into word tokens. Any rune that is not
// a letter or digit is a separator, which keeps the split stable across
// the three scripts.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// importantWords filters tokens longer than ImportantWordMinLen runes.
func importantWords(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if utf8.RuneCountInString(t) > ImportantWordMinLen {
			out = append(out, t)
		}
	}
	return out
}

// containsAll reports whether haystack carries every token of needles.
// An empty needle set does not count as contained.
func containsAll(haystack, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	for _, n := range needles {
		if !hasToken(haystack, n) {
			return false
		}
	}
	return true
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
