package entities

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// AnswerMatcher decides whether a submitted option equals the stored answer.
type AnswerMatcher interface {
	Match(submitted, correct string) bool
}

// ExactMatcher compares strings byte for byte.
type ExactMatcher struct{}

func (ExactMatcher) Match(submitted, correct string) bool {
	return submitted == correct
}

// FoldedMatcher ignores surrounding whitespace, Unicode composition and case.
type FoldedMatcher struct{}

func (FoldedMatcher) Match(submitted, correct string) bool {
	return foldAnswer(submitted) == foldAnswer(correct)
}

func foldAnswer(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	// cases.Caser is stateful, so a fresh one is used per call.
	return cases.Fold().String(s)
}
