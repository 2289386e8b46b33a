// Package app wires configuration, storage and services shared by every front end.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/config"
	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/infra/audio"
	"github.com/aliskhannn/kakaenen/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/kakaenen/internal/infra/postgres/repository"
	"github.com/aliskhannn/kakaenen/internal/infra/tts"
	"github.com/aliskhannn/kakaenen/internal/repository"
	"github.com/aliskhannn/kakaenen/internal/service"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

type Services struct {
	Content  *repository.ContentRepository
	Resolver *audio.Resolver
	Lesson   *service.LessonService
	Quiz     *service.QuizService
	Audio    *service.AudioService
	Janitor  *service.SessionJanitor
}

type App struct {
	Config *config.Config
	Logger *zap.Logger

	fs       afero.Fs
	sessions *storage.QuizStorage
	db       *pgxpool.Pool

	Services
}

// New builds the content store, audio pipeline and quiz service.
// Result persistence is enabled only when DATABASE_URL is set.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, fs afero.Fs) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		fs:       fs,
		sessions: storage.NewQuizStorage(),
	}

	if err := a.initServices(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) initServices(ctx context.Context) error {
	matcher := Matcher(a.Config.Quiz.AnswerMatching)

	content, err := repository.NewContentRepository(a.fs, a.Config.ContentPath, matcher)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	a.Content = content
	a.Lesson = service.NewLessonService(content)

	resolver, err := audio.NewResolver(a.fs, a.Config.AudioDir)
	if err != nil {
		return fmt.Errorf("index audio: %w", err)
	}
	a.Resolver = resolver
	a.Logger.Info("audio index built", zap.String("dir", a.Config.AudioDir), zap.Int("files", resolver.Len()))

	synth := tts.NewClient(tts.Config{
		APIKey:       a.Config.TTS.APIKey,
		LanguageCode: a.Config.TTS.LanguageCode,
		Timeout:      a.Config.TTS.Timeout,
		CacheDir:     a.Config.TTS.CacheDir,
	}, a.fs, a.Logger)
	a.Audio = service.NewAudioService(resolver, synth, a.Logger)

	opts := []service.QuizOption{}
	if a.Config.DB.Enabled() {
		recorder, err := a.initResultRecorder(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithResultRecorder(recorder))
	}

	a.Quiz, err = service.NewQuizService(
		content,
		a.sessions,
		service.QuizConfig{
			QuestionsPerSession: a.Config.Quiz.QuestionsPerSession,
			Reward:              a.Config.Quiz.Reward,
			Matcher:             matcher,
		},
		a.Logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("init quiz: %w", err)
	}

	a.Janitor, err = service.NewSessionJanitor(a.sessions, a.Config.Quiz.SessionTTL, a.Config.Quiz.SweepSchedule, a.Logger)
	if err != nil {
		return fmt.Errorf("init session janitor: %w", err)
	}

	return nil
}

func (a *App) initResultRecorder(ctx context.Context) (service.ResultRecorder, error) {
	dsn, err := a.Config.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(a.Config.DB.MaxConnections),
		MaxConnLifetime: a.Config.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.db = pool

	a.Logger.Info("quiz results will be saved to the database")
	return pgrepo.NewResultRepository(postgres.NewTransactor(pool)), nil
}

// StartJanitor evicts idle sessions in the background until ctx is cancelled.
func (a *App) StartJanitor(ctx context.Context) {
	go a.Janitor.Start(ctx)
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

// WriteSummary prints the loaded unit, its question pool and the audio index size.
func (a *App) WriteSummary(w io.Writer) error {
	unit := a.Content.Unit()
	questions := len(a.Content.Questions())

	fmt.Fprintf(w, "Unit %d: %s\n", unit.Number, unit.Title)
	fmt.Fprintf(w, "  vocabulary: %d\n", len(a.Content.Vocabulary()))
	fmt.Fprintf(w, "  sentences:  %d\n", len(a.Content.Sentences()))
	fmt.Fprintf(w, "  questions:  %d (sessions draw %d)\n", questions, a.Quiz.QuestionsPerSession())
	for i := 0; i < questions; i++ {
		q, err := a.Content.QuestionAt(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "    %d. %s [%d options]\n", i+1, q.Prompt, len(q.Options))
	}
	fmt.Fprintf(w, "  audio files in %s: %d\n", a.Config.AudioDir, a.Resolver.Len())

	return nil
}

// Matcher maps a quiz.answer_matching setting to its matcher.
func Matcher(mode string) entities.AnswerMatcher {
	if mode == config.MatchFolded {
		return entities.FoldedMatcher{}
	}
	return entities.ExactMatcher{}
}
