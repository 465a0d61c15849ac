package app

import (
	"sort"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Session is the in-memory state of one running quiz. Every mutation holds mu, and events caused by
// a mutation are handed to the Broadcaster before mu is released so rooms observe transitions in order.
type Session struct {
	pin       string
	quiz      domain.Quiz
	createdAt time.Time

	mu       sync.RWMutex
	status   domain.SessionStatus
	index    int
	players  []domain.Player
	scores   map[string]int
	answered map[string]int // playerID -> question index last answered
	closed   bool           // terminated by the host
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(pin string, quiz domain.Quiz) *Session {
	return NewSessionWithClock(pin, quiz, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(pin string, quiz domain.Quiz, now func() time.Time) *Session {
	return &Session{
		pin:       pin,
		quiz:      quiz,
		createdAt: now(),
		status:    domain.StatusWaiting,
		index:     -1,
		scores:    make(map[string]int),
		answered:  make(map[string]int),
	}
}

func (s *Session) Pin() string { return s.pin }

func (s *Session) Quiz() domain.Quiz { return s.quiz }

// Status reports the current lifecycle state.
func (s *Session) Status() domain.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// IsEmpty reports whether the roster has no players.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players) == 0
}

func (s *Session) join(player domain.Player, b Broadcaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case domain.StatusActive:
		return domain.ErrAlreadyStarted
	case domain.StatusEnded:
		return domain.ErrSessionInactive
	}

	s.players = append(s.players, player)
	s.scores[player.ID] = 0

	b.Attach(s.pin, player.ConnID)
	b.SendTo(player.ConnID, domain.Event{
		Type:    domain.EventJoined,
		Payload: domain.JoinResult{PlayerID: player.ID, QuizTitle: s.quiz.Title},
	})
	b.Broadcast(s.pin, domain.Event{
		Type:    domain.EventPlayerJoined,
		Payload: domain.PlayersPayload{Players: s.rosterLocked()},
	})
	return nil
}

// watch attaches connID to the room unless the session has ended, and sends it a snapshot.
func (s *Session) watch(connID string, b Broadcaster) domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusEnded {
		b.Attach(s.pin, connID)
	}
	snapshot := s.snapshotLocked()
	b.SendTo(connID, domain.Event{Type: domain.EventSessionState, Payload: snapshot})
	return snapshot
}

func (s *Session) start(connID string, b Broadcaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case domain.StatusActive:
		return domain.ErrAlreadyStarted
	case domain.StatusEnded:
		return domain.ErrSessionInactive
	}

	b.Attach(s.pin, connID)
	s.status = domain.StatusActive
	s.index = 0
	b.Broadcast(s.pin, domain.Event{Type: domain.EventQuizStarted})
	b.Broadcast(s.pin, s.questionEventLocked())
	return nil
}

// advance moves to the next question and returns the new index; len(questions) means the quiz ended.
func (s *Session) advance(connID string, b Broadcaster) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusActive {
		return s.index, domain.ErrSessionInactive
	}
	b.Attach(s.pin, connID)

	s.index++
	if s.index >= len(s.quiz.Questions) {
		s.index = len(s.quiz.Questions)
		s.status = domain.StatusEnded
		b.Broadcast(s.pin, domain.Event{
			Type:    domain.EventQuizEnded,
			Payload: domain.RankingPayload{PlayerScores: s.rankingLocked()},
		})
		return s.index, nil
	}
	b.Broadcast(s.pin, s.questionEventLocked())
	return s.index, nil
}

func (s *Session) submit(connID, playerID string, answerIndex int, timeRemaining float64, b Broadcaster) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusActive {
		return domain.AnswerResult{}, domain.ErrSessionInactive
	}
	if last, ok := s.answered[playerID]; ok && last == s.index {
		return domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}

	question := s.quiz.Questions[s.index]
	correct, points := Score(question, answerIndex, timeRemaining)
	s.scores[playerID] += points
	s.answered[playerID] = s.index

	result := domain.AnswerResult{
		IsCorrect:     correct,
		CorrectOption: question.CorrectOption,
		Points:        points,
		TotalScore:    s.scores[playerID],
	}
	b.SendTo(connID, domain.Event{Type: domain.EventAnswerResult, Payload: result})
	return result, nil
}

// end terminates the session and reports false when it was already terminated.
// A session that ended on its own may be removed concurrently, so connID only joins a live room.
func (s *Session) end(connID, message string, b Broadcaster) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.closed = true
	if s.status != domain.StatusEnded {
		b.Attach(s.pin, connID)
		s.status = domain.StatusEnded
	}
	b.Broadcast(s.pin, domain.Event{
		Type:    domain.EventQuizEnded,
		Payload: domain.EndedPayload{Message: message},
	})
	return true
}

// leave drops every roster entry bound to connID and returns the removed players.
func (s *Session) leave(connID string, b Broadcaster) []domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []domain.Player
	kept := s.players[:0]
	for _, p := range s.players {
		if p.ConnID == connID {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	if len(removed) == 0 {
		return nil
	}
	clear(s.players[len(kept):])
	s.players = kept

	b.Detach(s.pin, connID)
	for _, p := range removed {
		b.Broadcast(s.pin, domain.Event{
			Type:    domain.EventPlayerLeft,
			Payload: domain.PlayerLeftPayload{PlayerID: p.ID, Players: s.rosterLocked()},
		})
	}
	return removed
}

// Snapshot returns a consistent read-only view of the session.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		PinCode:       s.pin,
		QuizID:        s.quiz.ID,
		QuizTitle:     s.quiz.Title,
		Status:        s.status,
		QuestionIndex: s.index,
		QuestionCount: len(s.quiz.Questions),
		Players:       s.rosterLocked(),
		Scores:        s.rankingLocked(),
		CreatedAt:     s.createdAt,
	}
}

func (s *Session) questionEventLocked() domain.Event {
	return domain.Event{
		Type: domain.EventNewQuestion,
		Payload: domain.NewQuestionPayload{
			QuestionIndex: s.index,
			Question:      s.quiz.Questions[s.index].Public(),
		},
	}
}

func (s *Session) rosterLocked() []domain.Player {
	return append([]domain.Player{}, s.players...)
}

// rankingLocked orders the roster by descending score; equal scores keep join order.
func (s *Session) rankingLocked() []domain.PlayerScore {
	ranking := make([]domain.PlayerScore, 0, len(s.players))
	for _, p := range s.players {
		ranking = append(ranking, domain.PlayerScore{ID: p.ID, Name: p.Name, Score: s.scores[p.ID]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}
