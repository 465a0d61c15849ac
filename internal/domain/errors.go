package domain

import "errors"

var (
	// ErrInvalidQuizData is returned when a quiz definition fails validation.
	ErrInvalidQuizData = errors.New("invalid quiz data")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidPin is returned when no live session uses the given join code.
	ErrInvalidPin = errors.New("invalid PIN code")
	// ErrAlreadyStarted is returned for joins and starts once a session left the waiting state.
	ErrAlreadyStarted = errors.New("quiz has already started")
	// ErrSessionInactive is returned when an operation needs an active session.
	ErrSessionInactive = errors.New("quiz not active")
	// ErrAlreadyAnswered rejects a second answer to the same question from the same player.
	ErrAlreadyAnswered = errors.New("answer already submitted")
	// ErrInvalidPlayerName rejects blank display names.
	ErrInvalidPlayerName = errors.New("invalid player name")
	// ErrPinSpaceExhausted means no free join code was found.
	ErrPinSpaceExhausted = errors.New("no free PIN code available")
	// ErrInvalidPayload is returned for inbound messages that cannot be decoded.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnsupportedMessage is returned for unknown inbound message types.
	ErrUnsupportedMessage = errors.New("unsupported message type")
)

var userMessages = []struct {
	err error
	msg string
}{
	// ErrInvalidPin comes first: an unknown code also matches ErrSessionInactive for advance/submit.
	{ErrInvalidPin, "Invalid PIN code"},
	{ErrAlreadyStarted, "Quiz has already started"},
	{ErrSessionInactive, "Quiz not active"},
	{ErrAlreadyAnswered, "Answer already submitted for this question"},
	{ErrInvalidPlayerName, "Player name is required"},
	{ErrInvalidQuizData, "Invalid quiz data"},
	{ErrQuizNotFound, "Quiz not found"},
	{ErrPinSpaceExhausted, "No PIN code available, try again later"},
	{ErrInvalidPayload, "Invalid payload"},
	{ErrUnsupportedMessage, "Unsupported message type"},
}

// UserMessage converts an error into the text shown to clients.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Internal error"
}
