package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-client/internal/domain"
)

// QuestionSource loads the question bank from the questions table.
type QuestionSource struct {
	pool *pgxpool.Pool
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{pool: pool}
}

func (s *QuestionSource) LoadQuestions(ctx context.Context) ([]domain.QuestionBankEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, option_a, option_b, option_c, option_d, correct
		FROM questions
		WHERE active
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.QuestionBankEntry
	for rows.Next() {
		var q domain.QuestionBankEntry
		var id string
		if err := rows.Scan(&id, &q.Question, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.Correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.ID = domain.QuestionID(id)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrQuestionsUnavailable
	}
	return questions, nil
}
