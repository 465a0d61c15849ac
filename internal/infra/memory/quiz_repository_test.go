package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestQuizRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	if err := repo.SaveQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	got, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "Arithmetic" || len(got.Questions) != 1 || got.Questions[0].CorrectOption != 1 {
		t.Fatalf("unexpected quiz %+v", got)
	}

	if _, err := repo.GetQuiz(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSeededQuizRepository(t *testing.T) {
	repo := NewSeededQuizRepository(map[string]domain.Quiz{"quiz-1": sampleQuiz()})
	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get seeded quiz: %v", err)
	}
}

func TestQuizRepositoryListsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	newer := sampleQuiz()
	newer.ID, newer.Title, newer.CreatedAt = "quiz-2", "Later", base.Add(time.Minute)
	older := sampleQuiz()
	older.CreatedAt = base

	_ = repo.SaveQuiz(ctx, newer)
	_ = repo.SaveQuiz(ctx, older)

	list, err := repo.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "quiz-1" || list[1].ID != "quiz-2" {
		t.Fatalf("unexpected order %+v", list)
	}
	if list[0].QuestionCount != 1 || list[0].Title != "Arithmetic" {
		t.Fatalf("unexpected summary %+v", list[0])
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Questions: []domain.Question{
			{
				Text:          "What is 2 + 2?",
				Options:       []string{"3", "4"},
				CorrectOption: 1,
				TimeLimit:     20,
			},
		},
	}
}
