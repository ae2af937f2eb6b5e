package app_test

import (
	"errors"
	"testing"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/shuffle"
)

func startedSession(t *testing.T) *app.Session {
	t.Helper()
	s := app.NewSession(shuffle.NewRandomizer(11))
	if err := s.Register(participant()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.BeginLoading(); err != nil {
		t.Fatalf("begin loading: %v", err)
	}
	if err := s.Load(sampleBank()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestRegisterValidation(t *testing.T) {
	age := 200
	cases := []domain.Participant{
		{Name: "", Email: "a@b.co", Grade: "1"},
		{Name: "A", Email: "not-an-email", Grade: "1"},
		{Name: "A", Email: "a@b", Grade: "1"},
		{Name: "A", Email: "a@b.co", Grade: "  "},
		{Name: "A", Email: "a@b.co", Grade: "1", Age: &age},
	}
	for _, p := range cases {
		s := app.NewSession(shuffle.NewRandomizer(1))
		err := s.Register(p)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", p, err)
		}
		if s.State() != app.StateError {
			t.Fatalf("expected error state, got %s", s.State())
		}
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	s := app.NewSession(shuffle.NewRandomizer(1))
	if err := s.Register(domain.Participant{Name: " Bob ", Email: " Bob@Example.COM ", Grade: "9"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.Participant().Email != "bob@example.com" || s.Participant().Name != "Bob" {
		t.Fatalf("unexpected participant %+v", s.Participant())
	}
	if s.State() != app.StateRegistering {
		t.Fatalf("expected registering, got %s", s.State())
	}
}

func TestLoadRejectsEmptyBank(t *testing.T) {
	s := app.NewSession(shuffle.NewRandomizer(1))
	_ = s.Register(participant())
	_ = s.BeginLoading()
	err := s.Load([]domain.QuestionBankEntry{{ID: "x", Question: "", Correct: "A"}, {ID: "y", Question: "ok?", Correct: "Z"}})
	if !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if s.State() != app.StateError {
		t.Fatalf("expected error state, got %s", s.State())
	}
}

func TestLoadStartsAtFirstQuestion(t *testing.T) {
	s := startedSession(t)
	view, ok := s.View()
	if !ok || view.Index != 0 || view.Total != 3 || view.Answered {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(view.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(view.Options))
	}
}

func TestNavigationRequiresAnswer(t *testing.T) {
	s := startedSession(t)

	if err := s.Advance(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected answer required on advance, got %v", err)
	}
	if err := s.Finish(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected answer required on finish, got %v", err)
	}
	view, _ := s.View()
	if s.State() != app.StateInProgress || view.Index != 0 {
		t.Fatalf("refused navigation changed state: %s index %d", s.State(), view.Index)
	}

	if err := s.SelectAnswer("a"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	view, _ = s.View()
	if view.Index != 1 {
		t.Fatalf("expected index 1, got %d", view.Index)
	}
	if err := s.Finish(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected answer required for unanswered second question, got %v", err)
	}
}

func TestFinishRequiresEveryAnswer(t *testing.T) {
	s := startedSession(t)
	if err := s.SelectAnswer("A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Finish(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected finish refused with unanswered questions, got %v", err)
	}
	if s.State() != app.StateInProgress || s.Index() != 0 {
		t.Fatalf("refused finish changed state: %s index %d", s.State(), s.Index())
	}

	for i := 1; i < s.Len(); i++ {
		_ = s.Advance()
		_ = s.SelectAnswer("B")
	}
	for s.Index() > 0 {
		_ = s.Back()
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("expected finish from the first question once all are answered, got %v", err)
	}
	if s.State() != app.StateSubmitting {
		t.Fatalf("expected submitting, got %s", s.State())
	}
}

func TestSelectRejectsUnknownLetter(t *testing.T) {
	s := startedSession(t)
	if err := s.SelectAnswer("E"); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected invalid option, got %v", err)
	}
	if view, _ := s.View(); view.Answered {
		t.Fatalf("invalid selection must not record an answer")
	}
}

func TestQuestionOrderFrozenAcrossNavigation(t *testing.T) {
	s := startedSession(t)
	order := s.Order()

	_ = s.SelectAnswer("A")
	_ = s.Advance()
	_ = s.Back()
	_ = s.Advance()
	for i := 0; i < 5; i++ {
		_, _ = s.Display()
	}

	again := s.Order()
	for i := range order {
		if order[i].ID != again[i].ID {
			t.Fatalf("question order changed: %v vs %v", order, again)
		}
	}
}

func TestOptionOrderReshuffledOnDisplay(t *testing.T) {
	s := startedSession(t)
	first, _ := s.View()

	differs := false
	for i := 0; i < 20 && !differs; i++ {
		view, err := s.Display()
		if err != nil {
			t.Fatalf("display: %v", err)
		}
		if view.QuestionID != first.QuestionID {
			t.Fatalf("display moved to another question")
		}
		for j := range view.Options {
			if view.Options[j] != first.Options[j] {
				differs = true
			}
		}
	}
	if !differs {
		t.Fatalf("expected options to be reshuffled across displays")
	}
}

func TestReselectOverwritesAndRevisitKeepsSelection(t *testing.T) {
	s := startedSession(t)
	_ = s.SelectAnswer("A")
	_ = s.SelectAnswer("C")
	_ = s.Advance()
	_ = s.Back()

	view, _ := s.View()
	if !view.Answered || view.Selected != "C" {
		t.Fatalf("expected selection C kept on revisit, got %+v", view)
	}
	ledger := s.Ledger()
	if len(ledger) != 3 || ledger[0] == nil || ledger[0].SelectedOption != "C" {
		t.Fatalf("expected overwritten slot, got %+v", ledger)
	}
}

func TestAdvanceOnLastQuestionIsNoop(t *testing.T) {
	s := startedSession(t)
	for i := 0; i < 3; i++ {
		_ = s.SelectAnswer("A")
		_ = s.Advance()
	}
	view, _ := s.View()
	if view.Index != 2 || !view.Last || s.State() != app.StateInProgress {
		t.Fatalf("expected to stay on last question, got %+v in %s", view, s.State())
	}
}

func TestCompleteScoresLedger(t *testing.T) {
	s := startedSession(t)
	for i, q := range s.Order() {
		letter := correctLetter(q.ID)
		if i == 1 {
			letter = wrongLetter(q.ID)
		}
		if err := s.SelectAnswer(letter); err != nil {
			t.Fatalf("select: %v", err)
		}
		if i < 2 {
			_ = s.Advance()
		}
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if s.State() != app.StateSubmitting {
		t.Fatalf("expected submitting, got %s", s.State())
	}
	if err := s.Finish(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected second finish to be refused, got %v", err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	score := s.Score()
	if score.Correct != 2 || score.Total != 3 || score.Percentage != 67 {
		t.Fatalf("expected 2/3 67%%, got %+v", score)
	}
	if len(s.Review()) != 3 {
		t.Fatalf("expected 3 review items, got %d", len(s.Review()))
	}
}

func TestResetOnlyFromTerminalStates(t *testing.T) {
	s := startedSession(t)
	if err := s.Reset(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected reset refused while in progress, got %v", err)
	}

	failed := app.NewSession(shuffle.NewRandomizer(1))
	_ = failed.Register(domain.Participant{})
	oldID := failed.ID()
	if err := failed.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if failed.State() != app.StateUnregistered || failed.ID() == oldID {
		t.Fatalf("expected fresh unregistered session, got %s %s", failed.State(), failed.ID())
	}
}
