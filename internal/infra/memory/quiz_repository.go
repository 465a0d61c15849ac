package memory

import (
	"context"
	"sort"
	"sync"

	"live-quiz-service/internal/domain"
)

// QuizRepository is the default in-process quiz catalog store.
type QuizRepository struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{quizzes: make(map[string]domain.Quiz)}
}

// NewSeededQuizRepository returns a repository preloaded with quizzes (useful for tests/demos).
func NewSeededQuizRepository(quizzes map[string]domain.Quiz) *QuizRepository {
	r := NewQuizRepository()
	for id, quiz := range quizzes {
		r.quizzes[id] = quiz
	}
	return r
}

func (r *QuizRepository) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *QuizRepository) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if quiz, ok := r.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ListQuizzes(_ context.Context) ([]domain.QuizSummary, error) {
	r.mu.RLock()
	out := make([]domain.QuizSummary, 0, len(r.quizzes))
	for _, quiz := range r.quizzes {
		out = append(out, quiz.Summary())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
