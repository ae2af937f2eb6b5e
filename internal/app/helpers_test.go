package app_test

import (
	"context"
	"sync"

	"quiz-client/internal/domain"
)

type fakeRemote struct {
	mu        sync.Mutex
	taken     bool
	statusErr error
	saveErr   error

	statusCalls int
	saveCalls   int
	saved       []domain.AnswerRecord
}

func (f *fakeRemote) HasTakenExam(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.taken, f.statusErr
}

func (f *fakeRemote) SaveResults(_ context.Context, _ domain.Participant, answers []domain.AnswerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, answers...)
	return nil
}

func sampleBank() []domain.QuestionBankEntry {
	return []domain.QuestionBankEntry{
		{ID: "q1", Question: "What is 2 + 2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "6", Correct: "B"},
		{ID: "q2", Question: "Capital of France?", OptionA: "Paris", OptionB: "Rome", OptionC: "Madrid", OptionD: "Oslo", Correct: "A"},
		{ID: "q3", Question: "Largest planet?", OptionA: "Mars", OptionB: "Venus", OptionC: "Earth", OptionD: "Jupiter", Correct: "D"},
	}
}

func correctLetter(q domain.QuestionID) string {
	for _, entry := range sampleBank() {
		if entry.ID == q {
			return entry.Correct
		}
	}
	return ""
}

func wrongLetter(q domain.QuestionID) string {
	if correctLetter(q) == "A" {
		return "B"
	}
	return "A"
}

func participant() domain.Participant {
	return domain.Participant{Name: "Alice", Email: "alice@example.com", Grade: "10"}
}
