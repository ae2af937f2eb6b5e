package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"quiz-client/internal/domain"
)

// HistoryStore keeps eligibility records as a JSON array in a single file.
// It plays the part browser local storage plays for the web client.
type HistoryStore struct {
	path string
	mu   sync.Mutex
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// load returns an empty collection when the file does not exist yet.
func (s *HistoryStore) load() ([]domain.EligibilityRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []domain.EligibilityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", s.path, err)
	}
	return records, nil
}

// save writes through a temp file so a crash never leaves half a collection behind.
func (s *HistoryStore) save(records []domain.EligibilityRecord) error {
	if records == nil {
		records = []domain.EligibilityRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}

func (s *HistoryStore) List(_ context.Context) ([]domain.EligibilityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *HistoryStore) Find(_ context.Context, email string) (domain.EligibilityRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return domain.EligibilityRecord{}, false, err
	}
	email = domain.NormalizeEmail(email)
	for _, rec := range records {
		if domain.NormalizeEmail(rec.Email) == email {
			return rec, true, nil
		}
	}
	return domain.EligibilityRecord{}, false, nil
}

func (s *HistoryStore) Upsert(_ context.Context, rec domain.EligibilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	rec.Email = domain.NormalizeEmail(rec.Email)
	for i := range records {
		if domain.NormalizeEmail(records[i].Email) == rec.Email {
			records[i] = rec
			return s.save(records)
		}
	}
	return s.save(append(records, rec))
}

func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
