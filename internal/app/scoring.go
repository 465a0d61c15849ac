package app

import (
	"math"

	"live-quiz-service/internal/domain"
)

const (
	basePoints   = 100
	maxTimeBonus = 100
)

// Score computes the points for an answer to q. A correct answer earns basePoints plus a bonus
// proportional to the fraction of the time limit left; timeRemaining is clamped to [0, TimeLimit].
func Score(q domain.Question, answerIndex int, timeRemaining float64) (bool, int) {
	if answerIndex != q.CorrectOption {
		return false, 0
	}
	if q.TimeLimit <= 0 {
		return true, basePoints
	}
	remaining := math.Min(math.Max(timeRemaining, 0), float64(q.TimeLimit))
	bonus := int(math.Floor(maxTimeBonus * remaining / float64(q.TimeLimit)))
	return true, basePoints + bonus
}
