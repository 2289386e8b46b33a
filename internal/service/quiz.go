package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

var (
	ErrStaleQuestion = errors.New("question was already answered")
	ErrInvalidChoice = errors.New("invalid option index")
)

// QuizConfig holds the per-session quiz parameters.
type QuizConfig struct {
	QuestionsPerSession int
	Reward              int
	Matcher             entities.AnswerMatcher
}

// lockedRand makes a *rand.Rand safe for concurrent sessions.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// QuizOption customizes a QuizService.
type QuizOption func(*QuizService)

// WithRandSource makes sampling deterministic, mainly for tests.
func WithRandSource(src rand.Source) QuizOption {
	return func(s *QuizService) {
		s.rnd = &lockedRand{r: rand.New(src)}
	}
}

// WithResultRecorder archives every completed session.
func WithResultRecorder(r ResultRecorder) QuizOption {
	return func(s *QuizService) {
		s.recorder = r
	}
}

// QuizService runs quiz sessions. Every operation addresses a session by its handle;
// no session state lives in the service itself.
type QuizService struct {
	pool     []entities.Question
	storage  QuizStorage
	recorder ResultRecorder
	cfg      QuizConfig
	rnd      entities.Randomizer
	logger   *zap.Logger
}

// NewQuizService validates the pool against the session size.
// A pool smaller than the session size is a configuration error.
func NewQuizService(
	content ContentRepository,
	storage QuizStorage,
	cfg QuizConfig,
	logger *zap.Logger,
	opts ...QuizOption,
) (*QuizService, error) {
	if cfg.Matcher == nil {
		cfg.Matcher = entities.ExactMatcher{}
	}
	if cfg.QuestionsPerSession < 1 {
		return nil, entities.ErrInvalidSessionSize
	}

	pool := content.Questions()
	if len(pool) < cfg.QuestionsPerSession {
		return nil, fmt.Errorf("%w: pool has %d questions, sessions need %d",
			entities.ErrInsufficientPool, len(pool), cfg.QuestionsPerSession)
	}

	s := &QuizService{
		pool:    pool,
		storage: storage,
		cfg:     cfg,
		rnd:     &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// QuestionsPerSession returns N.
func (s *QuizService) QuestionsPerSession() int {
	return s.cfg.QuestionsPerSession
}

// Start creates a new session with freshly sampled questions.
func (s *QuizService) Start(_ context.Context) (*entities.QuizSession, error) {
	session, err := entities.NewQuizSession(uuid.NewString(), s.pool, s.cfg.QuestionsPerSession, s.cfg.Reward, s.rnd)
	if err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}

	s.storage.Store(session)

	s.logger.Debug("quiz session started",
		zap.String("session_id", session.ID),
		zap.Int("total_questions", session.Total()),
	)

	return session, nil
}

// Session returns the current state of a session.
func (s *QuizService) Session(_ context.Context, sessionID string) (*entities.QuizSession, error) {
	return s.storage.Get(sessionID)
}

// Submit answers the current question with option text.
func (s *QuizService) Submit(ctx context.Context, sessionID, option string) (*entities.QuizSession, entities.QuizAnswer, error) {
	var answer entities.QuizAnswer

	session, err := s.storage.Update(sessionID, func(qs *entities.QuizSession) error {
		a, err := qs.Submit(option, s.cfg.Matcher)
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err != nil {
		return nil, entities.QuizAnswer{}, err
	}

	s.afterSubmit(ctx, session, answer)

	return session, answer, nil
}

// SubmitChoice answers the question at position with the option at index choice
// of that question's shuffled options. A position other than the current one is
// rejected with ErrStaleQuestion, so replayed forms and old buttons cannot answer twice.
func (s *QuizService) SubmitChoice(ctx context.Context, sessionID string, position, choice int) (*entities.QuizSession, entities.QuizAnswer, error) {
	var answer entities.QuizAnswer

	session, err := s.storage.Update(sessionID, func(qs *entities.QuizSession) error {
		if qs.IsCompleted() {
			return entities.ErrSessionCompleted
		}
		if position != qs.CurrentIndex {
			return ErrStaleQuestion
		}

		current, _ := qs.Current()
		if choice < 0 || choice >= len(current.Options) {
			return fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
		}

		a, err := qs.Submit(current.Options[choice], s.cfg.Matcher)
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err != nil {
		return nil, entities.QuizAnswer{}, err
	}

	s.afterSubmit(ctx, session, answer)

	return session, answer, nil
}

// Restart re-samples the questions of an existing session and resets its score.
func (s *QuizService) Restart(_ context.Context, sessionID string) (*entities.QuizSession, error) {
	session, err := s.storage.Update(sessionID, func(qs *entities.QuizSession) error {
		return qs.Restart(s.pool, s.rnd)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("quiz session restarted",
		zap.String("session_id", sessionID),
		zap.String("attempt_id", session.AttemptID),
	)

	return session, nil
}

// End discards a session.
func (s *QuizService) End(_ context.Context, sessionID string) {
	s.storage.Delete(sessionID)
}

func (s *QuizService) afterSubmit(ctx context.Context, session *entities.QuizSession, answer entities.QuizAnswer) {
	s.logger.Debug("quiz answer submitted",
		zap.String("session_id", session.ID),
		zap.Int("position", answer.Position),
		zap.Bool("correct", answer.IsCorrect),
		zap.Int("score", session.Score),
	)

	if !session.IsCompleted() {
		return
	}

	s.logger.Info("quiz session completed",
		zap.String("session_id", session.ID),
		zap.String("attempt_id", session.AttemptID),
		zap.Int("score", session.Score),
		zap.Int("total_questions", session.Total()),
	)

	if s.recorder == nil {
		return
	}

	result, err := entities.NewQuizResult(session)
	if err != nil {
		s.logger.Error("failed to build quiz result", zap.String("session_id", session.ID), zap.Error(err))
		return
	}

	// Archiving is best effort: the learner already has the score.
	if err := s.recorder.Save(ctx, result); err != nil {
		s.logger.Error("failed to save quiz result",
			zap.String("session_id", session.ID),
			zap.String("attempt_id", result.AttemptID),
			zap.Error(err),
		)
	}
}
