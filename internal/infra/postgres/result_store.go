package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-client/internal/bankserver"
	"quiz-client/internal/domain"
)

// ResultStore saves submissions into the results table; answers are kept as JSONB.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) HasResults(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM results WHERE email=$1)`, domain.NormalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check results: %w", err)
	}
	return exists, nil
}

func (s *ResultStore) SaveResult(ctx context.Context, result bankserver.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO results (id, email, name, age, grade, answers, score, total, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)`,
		result.ID,
		domain.NormalizeEmail(result.Student.Email),
		result.Student.Name,
		result.Student.Age,
		result.Student.Grade,
		string(answers),
		result.Score.Correct,
		result.Score.Total,
		result.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}
