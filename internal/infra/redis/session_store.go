package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions live in a local map; Redis holds a reservation per join code (SETNX with TTL) so
// processes sharing one Redis never hand out the same live code.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	pins     app.PinGenerator
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, pins app.PinGenerator) *SessionStore {
	if pins == nil {
		pins = app.NewPinGenerator(app.DefaultPinDigits)
	}
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		pins:     pins,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(ctx context.Context, quiz domain.Quiz) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pin, err := app.AllocatePin(s.pins, func(pin string) (bool, error) {
		if _, used := s.sessions[pin]; used {
			return true, nil
		}
		reserved, err := s.client.SetNX(ctx, s.key(pin), quiz.ID, s.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("reserve pin: %w", err)
		}
		return !reserved, nil
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

func (s *SessionStore) Remove(ctx context.Context, pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[pin]; !ok {
		return false
	}
	delete(s.sessions, pin)
	// best-effort; the TTL frees the code eventually
	_ = s.client.Del(ctx, s.key(pin)).Err()
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

// Refresh extends the reservation of every live code by the store TTL.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.mu.RLock()
	pins := make([]string, 0, len(s.sessions))
	for pin := range s.sessions {
		pins = append(pins, pin)
	}
	s.mu.RUnlock()
	if len(pins) == 0 || s.ttl <= 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, pin := range pins {
		pipe.Expire(ctx, s.key(pin), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("refresh pins: %w", err)
	}
	return nil
}

func (s *SessionStore) key(pin string) string {
	return "quiz:session:" + pin
}
