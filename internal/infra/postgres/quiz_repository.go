package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"

	"live-quiz-service/internal/domain"
)

// quizRecord is the row layout of the quizzes table.
type quizRecord struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string          `bun:"id,pk"`
	Title     string          `bun:"title,notnull"`
	Data      json.RawMessage `bun:"data,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull"`
}

// QuizRepository archives quiz definitions in Postgres. Writes go through bun; reads use the pgx pool.
type QuizRepository struct {
	db   *bun.DB
	pool *pgxpool.Pool
}

func NewQuizRepository(db *bun.DB, pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{db: db, pool: pool}
}

func (r *QuizRepository) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	record := &quizRecord{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Data:      data,
		CreatedAt: quiz.CreatedAt,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

type quizSummaryRow struct {
	ID            string    `bun:"id"`
	Title         string    `bun:"title"`
	QuestionCount int       `bun:"question_count"`
	CreatedAt     time.Time `bun:"created_at"`
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var rows []quizSummaryRow
	err := r.db.NewSelect().
		Model((*quizRecord)(nil)).
		Column("id", "title", "created_at").
		ColumnExpr("jsonb_array_length(data->'questions') AS question_count").
		Order("created_at", "id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]domain.QuizSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.QuizSummary(row))
	}
	return out, nil
}
