package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientPool   = errors.New("question pool is smaller than the session size")
	ErrInvalidSessionSize = errors.New("session size must be positive")
	ErrSessionCompleted   = errors.New("quiz session is already completed")
	ErrUnknownOption      = errors.New("option is not offered for the current question")
)

// SessionStatus is the state of a quiz session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Randomizer is the subset of *rand.Rand used for sampling and shuffling.
type Randomizer interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

// SessionQuestion is a pool question with the option order drawn for one session.
type SessionQuestion struct {
	Question Question
	Options  []string // shuffled copy of Question.Options
}

// QuizAnswer records a single submission.
type QuizAnswer struct {
	Position      int       // zero-based index of the question in the session
	Prompt        string    // question prompt
	Selected      string    // option chosen by the learner
	CorrectAnswer string    // stored correct answer
	IsCorrect     bool      // whether the answer matched
	Hint          string    // hint surfaced after a wrong answer, empty when correct
	ScoreDelta    int       // points added by this answer
	AnsweredAt    time.Time // timestamp of the submission
}

// QuizSession represents one learner's quiz attempt.
type QuizSession struct {
	ID           string            // opaque session handle
	AttemptID    string            // identifies one attempt; renewed on every restart
	Size         int               // N, number of questions per attempt
	Reward       int               // points per correct answer
	Questions    []SessionQuestion // sampled questions in presentation order
	CurrentIndex int               // index of the next question to answer
	Score        int               // accumulated score
	Answered     []bool            // answered flag per question
	Answers      []QuizAnswer      // submissions in order
	StartedAt    time.Time         // timestamp when the attempt started
	CompletedAt  *time.Time        // timestamp when the last question was answered (nullable)
}

// SampleQuestions draws n distinct questions from pool and shuffles each question's options.
// The pool itself is never modified.
func SampleQuestions(pool []Question, n int, rnd Randomizer) ([]SessionQuestion, error) {
	if n < 1 {
		return nil, ErrInvalidSessionSize
	}
	if len(pool) < n {
		return nil, fmt.Errorf("%w: pool has %d questions, need %d", ErrInsufficientPool, len(pool), n)
	}

	picked := rnd.Perm(len(pool))[:n]

	selected := make([]SessionQuestion, 0, n)
	for _, idx := range picked {
		q := pool[idx]

		options := make([]string, len(q.Options))
		copy(options, q.Options)
		rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		selected = append(selected, SessionQuestion{Question: q, Options: options})
	}

	return selected, nil
}

// NewQuizSession starts an attempt with n freshly sampled questions.
func NewQuizSession(id string, pool []Question, n, reward int, rnd Randomizer) (*QuizSession, error) {
	qs := &QuizSession{ID: id, Size: n, Reward: reward}
	if err := qs.Restart(pool, rnd); err != nil {
		return nil, err
	}
	return qs, nil
}

// Restart re-samples the questions and resets the score.
// On error the session is left unchanged.
func (qs *QuizSession) Restart(pool []Question, rnd Randomizer) error {
	questions, err := SampleQuestions(pool, qs.Size, rnd)
	if err != nil {
		return err
	}

	qs.AttemptID = uuid.NewString()
	qs.Questions = questions
	qs.CurrentIndex = 0
	qs.Score = 0
	qs.Answered = make([]bool, len(questions))
	qs.Answers = nil
	qs.StartedAt = time.Now()
	qs.CompletedAt = nil

	return nil
}

// Total returns the number of questions in the attempt.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// Status reports whether questions remain.
func (qs *QuizSession) Status() SessionStatus {
	if qs.CurrentIndex >= len(qs.Questions) {
		return SessionCompleted
	}
	return SessionInProgress
}

// IsCompleted reports whether every question has been answered.
func (qs *QuizSession) IsCompleted() bool {
	return qs.Status() == SessionCompleted
}

// Current returns the question awaiting an answer.
func (qs *QuizSession) Current() (SessionQuestion, bool) {
	if qs.IsCompleted() {
		return SessionQuestion{}, false
	}
	return qs.Questions[qs.CurrentIndex], true
}

// LastAnswer returns the most recent submission, if any.
func (qs *QuizSession) LastAnswer() (QuizAnswer, bool) {
	if len(qs.Answers) == 0 {
		return QuizAnswer{}, false
	}
	return qs.Answers[len(qs.Answers)-1], true
}

// Progress returns the answered fraction in [0, 1].
func (qs *QuizSession) Progress() float64 {
	if len(qs.Questions) == 0 {
		return 0
	}
	return float64(qs.CurrentIndex) / float64(len(qs.Questions))
}

// Submit answers the current question. Each question gets a single attempt:
// the index advances whether or not the answer is correct.
func (qs *QuizSession) Submit(option string, m AnswerMatcher) (QuizAnswer, error) {
	current, ok := qs.Current()
	if !ok {
		return QuizAnswer{}, ErrSessionCompleted
	}

	offered := false
	for _, opt := range current.Options {
		if m.Match(option, opt) {
			offered = true
			break
		}
	}
	if !offered {
		return QuizAnswer{}, fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}

	answer := QuizAnswer{
		Position:      qs.CurrentIndex,
		Prompt:        current.Question.Prompt,
		Selected:      option,
		CorrectAnswer: current.Question.CorrectAnswer,
		IsCorrect:     m.Match(option, current.Question.CorrectAnswer),
		AnsweredAt:    time.Now(),
	}

	if answer.IsCorrect {
		answer.ScoreDelta = qs.Reward
		qs.Score += qs.Reward
	} else {
		answer.Hint = current.Question.Hint
	}

	qs.Answered[qs.CurrentIndex] = true
	qs.Answers = append(qs.Answers, answer)
	qs.CurrentIndex++

	if qs.IsCompleted() {
		completedAt := answer.AnsweredAt
		qs.CompletedAt = &completedAt
	}

	return answer, nil
}

// Clone returns a deep copy safe to read outside the session store.
func (qs *QuizSession) Clone() *QuizSession {
	c := *qs
	c.Questions = append([]SessionQuestion(nil), qs.Questions...)
	c.Answered = append([]bool(nil), qs.Answered...)
	c.Answers = append([]QuizAnswer(nil), qs.Answers...)
	if qs.CompletedAt != nil {
		completedAt := *qs.CompletedAt
		c.CompletedAt = &completedAt
	}
	return &c
}
