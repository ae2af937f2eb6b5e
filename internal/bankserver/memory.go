package bankserver

import (
	"context"
	"sync"

	"quiz-client/internal/domain"
)

// StaticQuestionSource serves a fixed bank (useful for tests/demos).
type StaticQuestionSource struct {
	questions []domain.QuestionBankEntry
}

func NewStaticQuestionSource(questions []domain.QuestionBankEntry) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

func (s *StaticQuestionSource) LoadQuestions(_ context.Context) ([]domain.QuestionBankEntry, error) {
	if len(s.questions) == 0 {
		return nil, domain.ErrQuestionsUnavailable
	}
	return append([]domain.QuestionBankEntry(nil), s.questions...), nil
}

// MemoryResultStore keeps results in process memory.
type MemoryResultStore struct {
	mu      sync.RWMutex
	results map[string][]Result
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{results: make(map[string][]Result)}
}

func (s *MemoryResultStore) HasResults(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results[domain.NormalizeEmail(email)]) > 0, nil
}

func (s *MemoryResultStore) SaveResult(_ context.Context, result Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := domain.NormalizeEmail(result.Student.Email)
	s.results[email] = append(s.results[email], result)
	return nil
}

// Results returns the saved results for email.
func (s *MemoryResultStore) Results(email string) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Result(nil), s.results[domain.NormalizeEmail(email)]...)
}

// SampleQuestions is a minimal bank for demos; swap in the xlsx or postgres source in production.
func SampleQuestions() []domain.QuestionBankEntry {
	return []domain.QuestionBankEntry{
		{ID: "1", Question: "What is 2 + 2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22", Correct: "B"},
		{ID: "2", Question: "Which planet is known as the red planet?", OptionA: "Venus", OptionB: "Jupiter", OptionC: "Mars", OptionD: "Saturn", Correct: "C"},
		{ID: "3", Question: "What is the boiling point of water at sea level?", OptionA: "100°C", OptionB: "90°C", OptionC: "80°C", OptionD: "120°C", Correct: "A"},
		{ID: "4", Question: "How many sides does a hexagon have?", OptionA: "5", OptionB: "8", OptionC: "7", OptionD: "6", Correct: "D"},
	}
}
