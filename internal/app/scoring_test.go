package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

func TestScore(t *testing.T) {
	q := domain.Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectOption: 0, TimeLimit: 20}

	tests := []struct {
		name          string
		answer        int
		timeRemaining float64
		wantCorrect   bool
		wantPoints    int
	}{
		{"full time", 0, 20, true, 200},
		{"no time left", 0, 0, true, 100},
		{"half time", 0, 10, true, 150},
		{"bonus is floored", 0, 7.9, true, 139},
		{"wrong answer ignores time", 1, 20, false, 0},
		{"out of range answer", 7, 5, false, 0},
		{"more time than limit is clamped", 0, 45, true, 200},
		{"negative time is clamped", 0, -3, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, points := app.Score(q, tt.answer, tt.timeRemaining)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantPoints, points)
		})
	}
}
