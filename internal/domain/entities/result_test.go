package entities

import (
	"errors"
	"testing"
)

func TestNewQuizResult(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 2, 100, newRand(1))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}

	if _, err := NewQuizResult(qs); !errors.Is(err, ErrSessionNotCompleted) {
		t.Fatalf("expected ErrSessionNotCompleted, got %v", err)
	}

	first, _ := qs.Current()
	if _, err := qs.Submit(first.Question.CorrectAnswer, ExactMatcher{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	second, _ := qs.Current()
	if _, err := qs.Submit(wrongOption(second), ExactMatcher{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	res, err := NewQuizResult(qs)
	if err != nil {
		t.Fatalf("NewQuizResult() error = %v", err)
	}
	if res.SessionID != "s1" || res.AttemptID != qs.AttemptID || res.Score != 100 || res.CorrectAnswers != 1 || res.TotalQuestions != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Answers) != 2 || res.Answers[1].Hint != second.Question.Hint {
		t.Fatalf("unexpected answers %+v", res.Answers)
	}
	if !res.CompletedAt.Equal(*qs.CompletedAt) {
		t.Fatalf("CompletedAt mismatch")
	}
}
