package entities

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewOptions      = errors.New("question needs at least two options")
	ErrDuplicateOption    = errors.New("question has duplicate options")
	ErrAnswerNotInOptions = errors.New("correct answer is not one of the options")
	ErrEmptyPrompt        = errors.New("question prompt is empty")
)

// Question is an immutable quiz question template from the pool.
type Question struct {
	Prompt        string   // text shown to the learner
	AudioRef      string   // logical audio filename or speech text, may be empty
	Options       []string // answer choices as authored
	CorrectAnswer string   // must match one of Options
	Hint          string   // shown after a wrong answer
}

// Validate checks the content invariants of a question under the given matcher.
func (q Question) Validate(m AnswerMatcher) error {
	if q.Prompt == "" {
		return ErrEmptyPrompt
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewOptions, len(q.Options))
	}

	found := false
	for i, opt := range q.Options {
		for _, other := range q.Options[i+1:] {
			if m.Match(opt, other) {
				return fmt.Errorf("%w: %q", ErrDuplicateOption, opt)
			}
		}
		if m.Match(opt, q.CorrectAnswer) {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrAnswerNotInOptions, q.CorrectAnswer)
	}

	return nil
}

// SpeechText returns the text used for synthesized playback of the prompt.
func (q Question) SpeechText() string {
	if q.AudioRef != "" {
		return q.AudioRef
	}
	return q.Prompt
}
