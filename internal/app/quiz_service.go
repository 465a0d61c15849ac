package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"live-quiz-service/internal/domain"
)

// SessionRepository abstracts how live sessions are stored (in-memory, Redis-backed, etc).
type SessionRepository interface {
	// Create allocates a free join code and stores a new waiting session for quiz.
	Create(ctx context.Context, quiz domain.Quiz) (*Session, error)
	Get(pin string) (*Session, bool)
	// Remove deletes the session and reports whether it was present.
	Remove(ctx context.Context, pin string) bool
	List() []*Session
}

// Broadcaster delivers events to connections and to the rooms they are attached to.
// Implementations must not block: they are called while a session lock is held, including Attach.
type Broadcaster interface {
	Attach(room, connID string)
	Detach(room, connID string)
	SendTo(connID string, event domain.Event)
	Broadcast(room string, event domain.Event)
	CloseRoom(room string)
}

// Observer receives lifecycle notifications, e.g. for metrics.
type Observer interface {
	SessionCreated()
	SessionRemoved()
	PlayerJoined()
	PlayerLeft()
	AnswerScored(correct bool)
}

// HostEndedMessage is sent to the room when the host terminates a session.
const HostEndedMessage = "The quiz has been ended by the host"

// errUnknownActive is returned by operations that need an active session when the code is unknown.
var errUnknownActive = fmt.Errorf("%w: %w", domain.ErrSessionInactive, domain.ErrInvalidPin)

// QuizService contains the quiz session use cases.
type QuizService struct {
	sessions    SessionRepository
	catalog     *Catalog
	broadcaster Broadcaster
	observer    Observer
	log         zerolog.Logger
	newID       func() string
}

type Option func(*QuizService)

func WithLogger(log zerolog.Logger) Option {
	return func(s *QuizService) {
		s.log = log.With().Str("component", "quiz_service").Logger()
	}
}

func WithObserver(o Observer) Option {
	return func(s *QuizService) {
		s.observer = o
	}
}

func NewQuizService(sessions SessionRepository, catalog *Catalog, b Broadcaster, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:    sessions,
		catalog:     catalog,
		broadcaster: b,
		observer:    nopObserver{},
		log:         zerolog.Nop(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateQuiz validates and stores a quiz definition.
func (s *QuizService) CreateQuiz(ctx context.Context, title string, questions []domain.Question) (string, error) {
	return s.catalog.Create(ctx, title, questions)
}

// ListQuizzes returns the stored quizzes without their questions.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.catalog.List(ctx)
}

// CreateSession opens a waiting session for an existing quiz and returns its join code.
func (s *QuizService) CreateSession(ctx context.Context, quizID string) (string, error) {
	quiz, err := s.catalog.Get(ctx, quizID)
	if err != nil {
		return "", err
	}
	session, err := s.sessions.Create(ctx, quiz)
	if err != nil {
		return "", err
	}
	s.observer.SessionCreated()
	s.log.Info().Str("pin", session.Pin()).Str("quiz_id", quiz.ID).Str("title", quiz.Title).Msg("session created")
	return session.Pin(), nil
}

// HostQuiz creates a quiz and a session for it in one step.
func (s *QuizService) HostQuiz(ctx context.Context, title string, questions []domain.Question) (string, string, error) {
	quizID, err := s.CreateQuiz(ctx, title, questions)
	if err != nil {
		return "", "", err
	}
	pin, err := s.CreateSession(ctx, quizID)
	if err != nil {
		return "", "", err
	}
	return quizID, pin, nil
}

// Join adds a player bound to connID to a waiting session.
func (s *QuizService) Join(_ context.Context, connID, pin, playerName string) (domain.JoinResult, error) {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.JoinResult{}, domain.ErrInvalidPin
	}
	name := strings.TrimSpace(playerName)
	if name == "" {
		return domain.JoinResult{}, domain.ErrInvalidPlayerName
	}

	player := domain.Player{ID: s.newID(), Name: name, ConnID: connID}
	if err := session.join(player, s.broadcaster); err != nil {
		return domain.JoinResult{}, err
	}
	s.observer.PlayerJoined()
	s.log.Info().Str("pin", pin).Str("player_id", player.ID).Str("name", name).Msg("player joined")
	return domain.JoinResult{PlayerID: player.ID, QuizTitle: session.Quiz().Title}, nil
}

// Watch attaches a non-player connection (the host screen) to the session room.
func (s *QuizService) Watch(_ context.Context, connID, pin string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrInvalidPin
	}
	return session.watch(connID, s.broadcaster), nil
}

// Start moves a waiting session to its first question.
func (s *QuizService) Start(_ context.Context, connID, pin string) error {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.ErrInvalidPin
	}
	if err := session.start(connID, s.broadcaster); err != nil {
		return err
	}
	s.log.Info().Str("pin", pin).Msg("quiz started")
	return nil
}

// Advance moves an active session to the next question, ending it after the last one.
// A session that ends with an empty roster is removed right away.
func (s *QuizService) Advance(ctx context.Context, connID, pin string) error {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return errUnknownActive
	}
	index, err := session.advance(connID, s.broadcaster)
	if err != nil {
		return err
	}
	if index >= len(session.Quiz().Questions) {
		s.log.Info().Str("pin", pin).Msg("quiz ended")
		// nobody left to read the ranking
		if session.IsEmpty() {
			s.remove(ctx, session)
		}
	} else {
		s.log.Info().Str("pin", pin).Int("question", index+1).Msg("quiz advanced")
	}
	return nil
}

// SubmitAnswer scores an answer to the current question. The result is sent to connID only.
func (s *QuizService) SubmitAnswer(_ context.Context, connID, pin, playerID string, answerIndex int, timeRemaining float64) (domain.AnswerResult, error) {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.AnswerResult{}, errUnknownActive
	}
	result, err := session.submit(connID, playerID, answerIndex, timeRemaining, s.broadcaster)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	s.observer.AnswerScored(result.IsCorrect)
	s.log.Debug().Str("pin", pin).Str("player_id", playerID).Int("points", result.Points).Msg("answer scored")
	return result, nil
}

// End terminates a session in any state and removes it.
func (s *QuizService) End(ctx context.Context, connID, pin string) error {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.ErrInvalidPin
	}
	if !session.end(connID, HostEndedMessage, s.broadcaster) {
		// terminated by a concurrent call
		return domain.ErrInvalidPin
	}
	s.remove(ctx, session)
	s.log.Info().Str("pin", pin).Msg("quiz ended by host")
	return nil
}

// Leave removes the players bound to a closed connection from every session they joined.
// Ended sessions left without players are dropped.
func (s *QuizService) Leave(ctx context.Context, connID string) {
	for _, session := range s.sessions.List() {
		removed := session.leave(connID, s.broadcaster)
		for _, p := range removed {
			s.observer.PlayerLeft()
			s.log.Info().Str("pin", session.Pin()).Str("player_id", p.ID).Str("name", p.Name).Msg("player left")
		}
		if len(removed) > 0 && session.Status() == domain.StatusEnded && session.IsEmpty() {
			s.remove(ctx, session)
		}
	}
}

// Snapshot returns the current state of a session.
func (s *QuizService) Snapshot(_ context.Context, pin string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(pin)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrInvalidPin
	}
	return session.Snapshot(), nil
}

// ActiveSessions returns a snapshot of every live session.
func (s *QuizService) ActiveSessions() []domain.SessionSnapshot {
	sessions := s.sessions.List()
	out := make([]domain.SessionSnapshot, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, session.Snapshot())
	}
	return out
}

// remove drops the session once; players still on the roster are counted as gone.
func (s *QuizService) remove(ctx context.Context, session *Session) {
	if !s.sessions.Remove(ctx, session.Pin()) {
		return
	}
	s.broadcaster.CloseRoom(session.Pin())
	for range session.Snapshot().Players {
		s.observer.PlayerLeft()
	}
	s.observer.SessionRemoved()
}

type nopObserver struct{}

func (nopObserver) SessionCreated()   {}
func (nopObserver) SessionRemoved()   {}
func (nopObserver) PlayerJoined()     {}
func (nopObserver) PlayerLeft()       {}
func (nopObserver) AnswerScored(bool) {}
