package entities

import (
	"errors"
	"time"
)

var ErrSessionNotCompleted = errors.New("quiz session is not completed")

// QuizResult is the archived outcome of a completed session.
type QuizResult struct {
	AttemptID      string
	SessionID      string
	Score          int
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time
	CompletedAt    time.Time
	Answers        []QuizAnswer
}

// NewQuizResult summarizes a completed session.
func NewQuizResult(qs *QuizSession) (*QuizResult, error) {
	if !qs.IsCompleted() || qs.CompletedAt == nil {
		return nil, ErrSessionNotCompleted
	}

	correct := 0
	for _, a := range qs.Answers {
		if a.IsCorrect {
			correct++
		}
	}

	return &QuizResult{
		AttemptID:      qs.AttemptID,
		SessionID:      qs.ID,
		Score:          qs.Score,
		TotalQuestions: qs.Total(),
		CorrectAnswers: correct,
		StartedAt:      qs.StartedAt,
		CompletedAt:    *qs.CompletedAt,
		Answers:        append([]QuizAnswer(nil), qs.Answers...),
	}, nil
}
