package domain

// Outbound event names.
const (
	EventJoined       = "joined"
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventQuizStarted  = "quiz-started"
	EventNewQuestion  = "new-question"
	EventQuizEnded    = "quiz-ended"
	EventAnswerResult = "answer-result"
	EventSessionState = "session-state"
	EventError        = "error"
)

// Event is the envelope written to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// PlayersPayload carries the roster after a join.
type PlayersPayload struct {
	Players []Player `json:"players"`
}

// PlayerLeftPayload names the departed player and the remaining roster.
type PlayerLeftPayload struct {
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

// NewQuestionPayload announces the current question without its answer.
type NewQuestionPayload struct {
	QuestionIndex int            `json:"questionIndex"`
	Question      PublicQuestion `json:"question"`
}

// RankingPayload is the final ranking, highest score first.
type RankingPayload struct {
	PlayerScores []PlayerScore `json:"playerScores"`
}

// EndedPayload is sent when the host terminates a session.
type EndedPayload struct {
	Message string `json:"message"`
}

// ErrorPayload is the user-facing text of a rejected message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ErrorEvent builds the error notice for err.
func ErrorEvent(err error) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: UserMessage(err)}}
}
