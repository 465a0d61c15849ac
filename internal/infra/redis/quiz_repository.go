package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// QuizRepository caches quiz definitions in Redis (one JSON string per quiz) in front of a backing
// repository. Saves write through; reads fall back to the backing store on a cache miss.
type QuizRepository struct {
	client  *redis.Client
	backing app.QuizRepository
	ttl     time.Duration
	sf      singleflight.Group
}

func NewQuizRepository(client *redis.Client, backing app.QuizRepository, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client:  client,
		backing: backing,
		ttl:     ttl,
	}
}

func (r *QuizRepository) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := r.backing.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	// best-effort; the backing store is authoritative
	_ = r.cache(ctx, quiz)
	return nil
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}
		quiz, err := r.backing.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		_ = r.cache(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// ListQuizzes is not cached; listings go to the backing store.
func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return r.backing.ListQuizzes(ctx)
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) cache(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if err := r.client.Set(ctx, r.key(quiz.ID), data, r.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("cache quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) key(quizID string) string {
	return "quiz:" + quizID
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int64N(jitterMax+1))
}
