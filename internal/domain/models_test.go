package domain

import (
	"encoding/json"
	"testing"
)

func TestTallyRoundsPercentage(t *testing.T) {
	records := []AnswerRecord{
		{Question: "q1", SelectedOption: "A", CorrectOption: "A", IsCorrect: true},
		{Question: "q2", SelectedOption: "B", CorrectOption: "C", IsCorrect: false},
		{Question: "q3", SelectedOption: "D", CorrectOption: "D", IsCorrect: true},
	}
	score := Tally(records)
	if score.Correct != 2 || score.Total != 3 || score.Percentage != 67 {
		t.Fatalf("expected 2/3 (67%%), got %+v", score)
	}
	if score.Incorrect() != 1 {
		t.Fatalf("expected 1 incorrect, got %d", score.Incorrect())
	}
}

func TestTallyIgnoresMalformedRecords(t *testing.T) {
	score := Tally([]AnswerRecord{
		{Question: "", SelectedOption: "A", CorrectOption: "A", IsCorrect: true},
		{Question: "q2", SelectedOption: "", CorrectOption: "A"},
	})
	if score.Total != 0 || score.Percentage != 0 {
		t.Fatalf("expected empty score, got %+v", score)
	}
}

func TestWellFormedSkipsNilSlots(t *testing.T) {
	ledger := []*AnswerRecord{
		{Question: "q1", SelectedOption: "A", CorrectOption: "B"},
		nil,
		{Question: "q3", SelectedOption: "C", CorrectOption: ""},
	}
	got := WellFormed(ledger)
	if len(got) != 1 || got[0].Question != "q1" {
		t.Fatalf("expected only q1, got %+v", got)
	}
}

func TestQuestionIDAcceptsNumbers(t *testing.T) {
	var entries []QuestionBankEntry
	raw := `[{"id":7,"question":"x","correct":"b"},{"id":"q-2","question":"y","correct":"A"}]`
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entries[0].ID != "7" || entries[1].ID != "q-2" {
		t.Fatalf("unexpected ids: %q %q", entries[0].ID, entries[1].ID)
	}
	if entries[0].CorrectLetter() != "B" || !entries[0].Valid() {
		t.Fatalf("expected normalized valid entry, got %+v", entries[0])
	}
}
