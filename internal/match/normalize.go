// Package match decides whether a free-text guess matches a canonical trivia
// answer: normalization, fuzzy similarity scoring, and the correctness rule.
// Everything here is pure text transformation with no I/O.
package match

import (
	"regexp"
	"strings"
)

var (
	nonWord          = regexp.MustCompile(`[^\w\s]`)
	ampersand        = regexp.MustCompile(`(?i)\s+(&nbsp;|&)\s+`)
	leadingArticle   = regexp.MustCompile(`(?i)^(the|a|an) `)
	leadingQuestion  = regexp.MustCompile(`(?i)^(what|whats|where|wheres|who|whos) `)
	leadingCopula    = regexp.MustCompile(`^(is|are|was|were) `)
	trailingQuestion = regexp.MustCompile(`\?+$`)
)

// NormalizeAnswer canonicalizes the source-provided correct answer for
// comparison: punctuation and a leading article removed, trimmed, lowercased.
func NormalizeAnswer(s string) string {
	s = nonWord.ReplaceAllString(s, "")
	s = leadingArticle.ReplaceAllString(s, "")
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeGuess canonicalizes a user's guess. On top of the answer-side
// rules it converts ampersands to "and" and strips the question framing a
// player may wrap their response in ("what is ...", trailing question marks).
func NormalizeGuess(s string) string {
	s = ampersand.ReplaceAllString(s, " and ")
	s = nonWord.ReplaceAllString(s, "")
	s = leadingQuestion.ReplaceAllString(s, "")
	s = leadingCopula.ReplaceAllString(s, "")
	s = leadingArticle.ReplaceAllString(s, "")
	s = trailingQuestion.ReplaceAllString(s, "")
	return strings.ToLower(strings.TrimSpace(s))
}

// IsQuestionFormat reports whether the guess is phrased as a question
// ("what is ...", "who was ..."). Informational only: correctness never
// depends on it.
func IsQuestionFormat(s string) bool {
	return leadingQuestion.MatchString(nonWord.ReplaceAllString(s, ""))
}
