package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

type sessionEntry struct {
	session   *entities.QuizSession
	touchedAt time.Time
}

// QuizStorage provides in-memory storage for quiz sessions by session ID.
// Every session is isolated; mutations of one session are serialized.
type QuizStorage struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// Store saves a session under its ID, replacing any previous one.
func (s *QuizStorage) Store(session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &sessionEntry{session: session.Clone(), touchedAt: s.now()}
}

// Get returns a copy of the session with the given ID.
func (s *QuizStorage) Get(sessionID string) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.touchedAt = s.now()

	return e.session.Clone(), nil
}

// Update applies fn to the stored session under the lock and returns a copy of the result.
// When fn fails the stored session is left as it was.
func (s *QuizStorage) Update(sessionID string, fn func(*entities.QuizSession) error) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.touchedAt = s.now()

	working := e.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	e.session = working

	return working.Clone(), nil
}

// Delete removes the session with the given ID.
func (s *QuizStorage) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep removes sessions idle for longer than ttl and returns how many were removed.
func (s *QuizStorage) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Len returns the number of stored sessions.
func (s *QuizStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
