package telegram

import "sync"

// chatSessions maps each chat to its quiz session handle.
type chatSessions struct {
	mu  sync.Mutex
	ids map[int64]string
}

func newChatSessions() *chatSessions {
	return &chatSessions{ids: make(map[int64]string)}
}

func (s *chatSessions) get(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ids[chatID]
	return id, ok
}

func (s *chatSessions) set(chatID int64, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[chatID] = sessionID
}

func (s *chatSessions) delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, chatID)
}
