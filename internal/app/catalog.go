package app

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"live-quiz-service/internal/domain"
)

// QuizRepository stores quiz definitions (in-memory, Postgres, Redis cache).
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	// ListQuizzes returns every stored quiz, oldest first.
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// Catalog validates and stores immutable quizzes.
type Catalog struct {
	quizzes  QuizRepository
	validate *validator.Validate
	newID    func() string
	now      func() time.Time
}

func NewCatalog(quizzes QuizRepository) *Catalog {
	return &Catalog{
		quizzes:  quizzes,
		validate: NewValidator(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Create validates the quiz and stores a private copy under a fresh ID.
func (c *Catalog) Create(ctx context.Context, title string, questions []domain.Question) (string, error) {
	quiz := domain.Quiz{
		ID:        c.newID(),
		Title:     strings.TrimSpace(title),
		Questions: cloneQuestions(questions),
		CreatedAt: c.now(),
	}
	if err := ValidateQuiz(c.validate, quiz); err != nil {
		return "", err
	}
	if err := c.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}
	return quiz.ID, nil
}

func (c *Catalog) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	return c.quizzes.GetQuiz(ctx, quizID)
}

func (c *Catalog) List(ctx context.Context) ([]domain.QuizSummary, error) {
	return c.quizzes.ListQuizzes(ctx)
}

// ValidateQuiz checks the structural invariants of a quiz definition.
func ValidateQuiz(v *validator.Validate, quiz domain.Quiz) error {
	if err := v.Struct(quiz); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuizData, err)
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", domain.ErrInvalidQuizData, i)
		}
		if q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct option %d out of range", domain.ErrInvalidQuizData, i, q.CorrectOption)
		}
	}
	return nil
}

func cloneQuestions(in []domain.Question) []domain.Question {
	if in == nil {
		return nil
	}
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
