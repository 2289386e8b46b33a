package web

import (
	"context"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
)

type QuizService interface {
	Start(ctx context.Context) (*entities.QuizSession, error)
	Session(ctx context.Context, sessionID string) (*entities.QuizSession, error)
	SubmitChoice(ctx context.Context, sessionID string, position, choice int) (*entities.QuizSession, entities.QuizAnswer, error)
	Restart(ctx context.Context, sessionID string) (*entities.QuizSession, error)
}

type LessonService interface {
	Unit() entities.Unit
	Vocabulary() []entities.VocabEntry
	Sentences() []entities.SentenceEntry
	AudioRequest(kind string, index int) (service.AudioRequest, error)
}

type AudioService interface {
	Play(ctx context.Context, req service.AudioRequest) service.PlaybackResult
}
