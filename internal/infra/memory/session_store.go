package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	pins     app.PinGenerator
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(pins app.PinGenerator) *SessionStore {
	if pins == nil {
		pins = app.NewPinGenerator(app.DefaultPinDigits)
	}
	return &SessionStore{
		pins:     pins,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(_ context.Context, quiz domain.Quiz) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pin, err := app.AllocatePin(s.pins, func(pin string) (bool, error) {
		_, used := s.sessions[pin]
		return used, nil
	})
	if err != nil {
		return nil, err
	}
	session := app.NewSession(pin, quiz)
	s.sessions[pin] = session
	return session, nil
}

func (s *SessionStore) Get(pin string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[pin]
	return session, ok
}

func (s *SessionStore) Remove(_ context.Context, pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[pin]; !ok {
		return false
	}
	delete(s.sessions, pin)
	return true
}

func (s *SessionStore) List() []*app.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
