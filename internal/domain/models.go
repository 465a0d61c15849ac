package domain

import "time"

// Question models a multiple choice question with exactly one correct option.
type Question struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=1,dive,required"`
	CorrectOption int      `json:"correctOption" validate:"gte=0"`
	TimeLimit     int      `json:"timeLimit" validate:"gt=0"` // seconds
}

// PublicQuestion is the part of a question players are allowed to see.
type PublicQuestion struct {
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

// Public strips the correct option.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{Text: q.Text, Options: q.Options, TimeLimit: q.TimeLimit}
}

// Quiz is an immutable, ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuizSummary is the catalog listing entry for a quiz.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary returns the listing entry for q.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{ID: q.ID, Title: q.Title, QuestionCount: len(q.Questions), CreatedAt: q.CreatedAt}
}

// SessionStatus is the lifecycle state of a running quiz.
type SessionStatus string

const (
	StatusWaiting SessionStatus = "waiting"
	StatusActive  SessionStatus = "active"
	StatusEnded   SessionStatus = "ended"
)

// Player is a roster entry. ConnID identifies the transport connection and never leaves the server.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ConnID string `json:"-"`
}

// PlayerScore is one row of the final ranking.
type PlayerScore struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// JoinResult is returned to a player after a successful join.
type JoinResult struct {
	PlayerID  string `json:"playerId"`
	QuizTitle string `json:"quizTitle"`
}

// AnswerResult summarizes the outcome of a submission for a single player.
type AnswerResult struct {
	IsCorrect     bool `json:"isCorrect"`
	CorrectOption int  `json:"correctOption"`
	Points        int  `json:"points"`
	TotalScore    int  `json:"totalScore"`
}

// SessionSnapshot is a read-only view of a session for hosts and the HTTP API.
type SessionSnapshot struct {
	PinCode       string        `json:"pinCode"`
	QuizID        string        `json:"quizId"`
	QuizTitle     string        `json:"quizTitle"`
	Status        SessionStatus `json:"status"`
	QuestionIndex int           `json:"questionIndex"`
	QuestionCount int           `json:"questionCount"`
	Players       []Player      `json:"players"`
	Scores        []PlayerScore `json:"scores"`
	CreatedAt     time.Time     `json:"createdAt"`
}
