package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-client/internal/domain"
)

// HistoryStore is an in-memory implementation of app.HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.EligibilityRecord
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.EligibilityRecord),
	}
}

func (s *HistoryStore) List(_ context.Context) ([]domain.EligibilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EligibilityRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *HistoryStore) Find(_ context.Context, email string) (domain.EligibilityRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[domain.NormalizeEmail(email)]
	return rec, ok, nil
}

func (s *HistoryStore) Upsert(_ context.Context, rec domain.EligibilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Email = domain.NormalizeEmail(rec.Email)
	s.records[rec.Email] = rec
	return nil
}

func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.EligibilityRecord)
	return nil
}
