package entities

import (
	"errors"
	"math/rand"
	"testing"
)

func testPool() []Question {
	return []Question{
		{Prompt: "Dateng", Options: []string{"蔬菜", "肉", "蛋"}, CorrectAnswer: "蔬菜", Hint: "綠色的食物"},
		{Prompt: "Titi", Options: []string{"肉", "飯", "酒"}, CorrectAnswer: "肉", Hint: "豬肉、牛肉都是 Titi"},
		{Prompt: "Epah", Options: []string{"酒", "水", "茶"}, CorrectAnswer: "酒", Hint: "喝了會醉"},
		{Prompt: "Minanom cangra.", Options: []string{"他們喝水", "他們吃飯", "他們洗澡"}, CorrectAnswer: "他們喝水", Hint: "Minanom"},
		{Prompt: "Macahiwto kora a wawa.", Options: []string{"那個小孩餓了", "那個小孩飽了"}, CorrectAnswer: "那個小孩餓了", Hint: "Macahiw"},
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func wrongOption(q SessionQuestion) string {
	for _, opt := range q.Options {
		if opt != q.Question.CorrectAnswer {
			return opt
		}
	}
	return ""
}

func TestSampleQuestionsDistinctAndFromPool(t *testing.T) {
	pool := testPool()

	for seed := int64(0); seed < 50; seed++ {
		selected, err := SampleQuestions(pool, 3, newRand(seed))
		if err != nil {
			t.Fatalf("SampleQuestions() error = %v", err)
		}
		if len(selected) != 3 {
			t.Fatalf("expected 3 questions, got %d", len(selected))
		}

		seen := make(map[string]bool)
		for _, sq := range selected {
			if seen[sq.Question.Prompt] {
				t.Fatalf("seed %d: question %q sampled twice", seed, sq.Question.Prompt)
			}
			seen[sq.Question.Prompt] = true

			inPool := false
			for _, q := range pool {
				if q.Prompt == sq.Question.Prompt {
					inPool = true
				}
			}
			if !inPool {
				t.Fatalf("seed %d: question %q is not from the pool", seed, sq.Question.Prompt)
			}

			if len(sq.Options) != len(sq.Question.Options) {
				t.Fatalf("shuffled options lost entries: %v", sq.Options)
			}
			counts := make(map[string]int)
			for _, opt := range sq.Question.Options {
				counts[opt]++
			}
			for _, opt := range sq.Options {
				counts[opt]--
			}
			for opt, c := range counts {
				if c != 0 {
					t.Fatalf("option %q is not a permutation member", opt)
				}
			}
		}
	}
}

func TestSampleQuestionsDoesNotMutatePool(t *testing.T) {
	pool := testPool()
	before := append([]string(nil), pool[0].Options...)

	for seed := int64(0); seed < 20; seed++ {
		if _, err := SampleQuestions(pool, len(pool), newRand(seed)); err != nil {
			t.Fatalf("SampleQuestions() error = %v", err)
		}
	}

	for i := range before {
		if pool[0].Options[i] != before[i] {
			t.Fatalf("pool options were reordered: %v", pool[0].Options)
		}
	}
}

func TestSampleQuestionsInsufficientPool(t *testing.T) {
	_, err := SampleQuestions(testPool()[:2], 3, newRand(1))
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}

	_, err = SampleQuestions(testPool(), 0, newRand(1))
	if !errors.Is(err, ErrInvalidSessionSize) {
		t.Fatalf("expected ErrInvalidSessionSize, got %v", err)
	}
}

func TestSubmitCorrectAndWrong(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 3, 100, newRand(7))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}
	m := ExactMatcher{}

	first, _ := qs.Current()
	ans, err := qs.Submit(first.Question.CorrectAnswer, m)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !ans.IsCorrect || ans.ScoreDelta != 100 || ans.Hint != "" {
		t.Fatalf("unexpected answer for correct option: %+v", ans)
	}
	if qs.Score != 100 || qs.CurrentIndex != 1 {
		t.Fatalf("expected score 100 and index 1, got %d and %d", qs.Score, qs.CurrentIndex)
	}

	second, _ := qs.Current()
	ans, err = qs.Submit(wrongOption(second), m)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ans.IsCorrect || ans.ScoreDelta != 0 {
		t.Fatalf("unexpected answer for wrong option: %+v", ans)
	}
	if ans.Hint != second.Question.Hint {
		t.Fatalf("expected hint %q, got %q", second.Question.Hint, ans.Hint)
	}
	if qs.Score != 100 || qs.CurrentIndex != 2 {
		t.Fatalf("expected score 100 and index 2, got %d and %d", qs.Score, qs.CurrentIndex)
	}
	if !qs.Answered[0] || !qs.Answered[1] || qs.Answered[2] {
		t.Fatalf("unexpected answered flags %v", qs.Answered)
	}
}

func TestSubmitUnknownOptionLeavesStateUnchanged(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 2, 100, newRand(3))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}

	_, err = qs.Submit("not an option", ExactMatcher{})
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if qs.CurrentIndex != 0 || qs.Score != 0 || len(qs.Answers) != 0 {
		t.Fatalf("state changed after rejected submit: %+v", qs)
	}
}

func TestCompletionRejectsFurtherSubmits(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 3, 100, newRand(11))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if qs.IsCompleted() {
			t.Fatalf("completed after %d submissions", i)
		}
		cur, _ := qs.Current()
		if _, err := qs.Submit(wrongOption(cur), ExactMatcher{}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	if qs.Status() != SessionCompleted {
		t.Fatalf("expected completed status, got %s", qs.Status())
	}
	if qs.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	_, err = qs.Submit(qs.Questions[0].Question.CorrectAnswer, ExactMatcher{})
	if !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
	if qs.Score != 0 || qs.CurrentIndex != 3 {
		t.Fatalf("state changed after completion: score %d index %d", qs.Score, qs.CurrentIndex)
	}
}

func TestRestartFromCompleted(t *testing.T) {
	pool := testPool()
	qs, err := NewQuizSession("s1", pool, 2, 100, newRand(5))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}
	for !qs.IsCompleted() {
		cur, _ := qs.Current()
		if _, err := qs.Submit(cur.Question.CorrectAnswer, ExactMatcher{}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if qs.Score != 200 {
		t.Fatalf("expected score 200, got %d", qs.Score)
	}

	firstAttempt := qs.AttemptID
	if firstAttempt == "" {
		t.Fatalf("expected an attempt id")
	}

	if err := qs.Restart(pool, newRand(6)); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if qs.ID != "s1" || qs.AttemptID == firstAttempt {
		t.Fatalf("restart must keep the handle and renew the attempt: id %q attempt %q", qs.ID, qs.AttemptID)
	}
	if qs.Status() != SessionInProgress || qs.Score != 0 || qs.CurrentIndex != 0 {
		t.Fatalf("expected fresh session, got status %s score %d index %d", qs.Status(), qs.Score, qs.CurrentIndex)
	}
	if len(qs.Questions) != 2 || len(qs.Answers) != 0 || qs.CompletedAt != nil {
		t.Fatalf("restart did not reset the attempt: %+v", qs)
	}
}

func TestRestartFailureKeepsSession(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 3, 100, newRand(5))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}
	prompt := qs.Questions[0].Question.Prompt

	if err := qs.Restart(testPool()[:1], newRand(6)); !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	if qs.Questions[0].Question.Prompt != prompt || len(qs.Questions) != 3 {
		t.Fatalf("failed restart modified the session")
	}
}

func TestSingleQuestionScenario(t *testing.T) {
	pool := []Question{{Prompt: "Q", Options: []string{"A", "B", "C"}, CorrectAnswer: "A", Hint: "h"}}

	qs, err := NewQuizSession("s1", pool, 1, 100, newRand(1))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}

	if _, err := qs.Submit("A", ExactMatcher{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if qs.Score != 100 {
		t.Fatalf("expected score 100, got %d", qs.Score)
	}
	if !qs.IsCompleted() {
		t.Fatalf("expected completed session")
	}
	if qs.Progress() != 1 {
		t.Fatalf("expected progress 1, got %v", qs.Progress())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	qs, err := NewQuizSession("s1", testPool(), 2, 100, newRand(2))
	if err != nil {
		t.Fatalf("NewQuizSession() error = %v", err)
	}

	c := qs.Clone()
	cur, _ := qs.Current()
	if _, err := qs.Submit(cur.Question.CorrectAnswer, ExactMatcher{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if c.CurrentIndex != 0 || c.Score != 0 || c.Answered[0] || len(c.Answers) != 0 {
		t.Fatalf("clone changed with original: %+v", c)
	}
}
