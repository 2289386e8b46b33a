package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
)

// Bot is the subset of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

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
