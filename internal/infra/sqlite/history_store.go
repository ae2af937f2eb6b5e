package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"quiz-client/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS exam_history (
	email          TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	grade          TEXT NOT NULL,
	taken_at       DATETIME NOT NULL,
	score          INTEGER NOT NULL,
	total_answered INTEGER NOT NULL
)`

type historyRow struct {
	Email         string    `db:"email"`
	Name          string    `db:"name"`
	Grade         string    `db:"grade"`
	TakenAt       time.Time `db:"taken_at"`
	Score         int       `db:"score"`
	TotalAnswered int       `db:"total_answered"`
}

func (r historyRow) record() domain.EligibilityRecord {
	return domain.EligibilityRecord{
		Email:         r.Email,
		Name:          r.Name,
		Grade:         r.Grade,
		Timestamp:     r.TakenAt.UTC(),
		Score:         r.Score,
		TotalAnswered: r.TotalAnswered,
	}
}

// HistoryStore keeps eligibility records in a local SQLite database.
type HistoryStore struct {
	db *sqlx.DB
}

// Open connects to the database at path (":memory:" works) and ensures the schema.
func Open(path string) (*HistoryStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) List(ctx context.Context) ([]domain.EligibilityRecord, error) {
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM exam_history ORDER BY taken_at`); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]domain.EligibilityRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (s *HistoryStore) Find(ctx context.Context, email string) (domain.EligibilityRecord, bool, error) {
	var row historyRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM exam_history WHERE email = ?`, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EligibilityRecord{}, false, nil
	}
	if err != nil {
		return domain.EligibilityRecord{}, false, fmt.Errorf("find history: %w", err)
	}
	return row.record(), true, nil
}

func (s *HistoryStore) Upsert(ctx context.Context, rec domain.EligibilityRecord) error {
	row := historyRow{
		Email:         domain.NormalizeEmail(rec.Email),
		Name:          rec.Name,
		Grade:         rec.Grade,
		TakenAt:       rec.Timestamp.UTC(),
		Score:         rec.Score,
		TotalAnswered: rec.TotalAnswered,
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO exam_history (email, name, grade, taken_at, score, total_answered)
		VALUES (:email, :name, :grade, :taken_at, :score, :total_answered)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			grade = excluded.grade,
			taken_at = excluded.taken_at,
			score = excluded.score,
			total_answered = excluded.total_answered`, row)
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM exam_history`)
	return err
}
