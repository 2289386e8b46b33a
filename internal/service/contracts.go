package service

import (
	"context"
	"time"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

// ContentRepository exposes the immutable lesson content.
type ContentRepository interface {
	Unit() entities.Unit
	Vocabulary() []entities.VocabEntry
	Sentences() []entities.SentenceEntry
	Questions() []entities.Question
	VocabAt(i int) (entities.VocabEntry, error)
	SentenceAt(i int) (entities.SentenceEntry, error)
}

// QuizStorage keeps live sessions, one per handle.
type QuizStorage interface {
	Store(session *entities.QuizSession)
	Get(sessionID string) (*entities.QuizSession, error)
	Update(sessionID string, fn func(*entities.QuizSession) error) (*entities.QuizSession, error)
	Delete(sessionID string)
}

// SessionSweeper evicts idle sessions.
type SessionSweeper interface {
	Sweep(ttl time.Duration) int
}

// ResultRecorder archives completed sessions.
type ResultRecorder interface {
	Save(ctx context.Context, result *entities.QuizResult) error
}

// AudioResolver serves recorded audio by filename.
type AudioResolver interface {
	Lookup(filename string) (string, bool)
	Resolve(filename string) ([]byte, error)
}

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
