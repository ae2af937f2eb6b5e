package app

import (
	"context"
	"log"
	"time"

	"quiz-client/internal/domain"
)

// ResultSender persists results on the remote service.
type ResultSender interface {
	SaveResults(ctx context.Context, participant domain.Participant, answers []domain.AnswerRecord) error
}

// Submission is the outcome of reconciling a finished ledger.
type Submission struct {
	Score     domain.Score
	Answers   []domain.AnswerRecord
	Saved     bool
	RemoteErr error
}

// Reconciler submits results and records local history whatever the remote outcome.
type Reconciler struct {
	sender  ResultSender
	history HistoryStore
	now     func() time.Time
}

func NewReconciler(sender ResultSender, history HistoryStore) *Reconciler {
	return NewReconcilerWithClock(sender, history, time.Now)
}

// NewReconcilerWithClock is used by tests for deterministic timestamps.
func NewReconcilerWithClock(sender ResultSender, history HistoryStore, now func() time.Time) *Reconciler {
	return &Reconciler{sender: sender, history: history, now: now}
}

// Submit sends the well-formed answers. Only ErrNoValidAnswers is returned as an
// error; a remote failure is reported in Submission.RemoteErr and does not block completion.
func (r *Reconciler) Submit(ctx context.Context, participant domain.Participant, ledger []*domain.AnswerRecord) (Submission, error) {
	answers := domain.WellFormed(ledger)
	if len(answers) == 0 {
		return Submission{}, domain.ErrNoValidAnswers
	}

	sub := Submission{
		Score:   domain.Tally(answers),
		Answers: answers,
	}
	if err := r.sender.SaveResults(ctx, participant, answers); err != nil {
		log.Printf("submission: remote save failed for %s, keeping results locally: %v", participant.Email, err)
		sub.RemoteErr = err
	} else {
		sub.Saved = true
	}

	rec := domain.EligibilityRecord{
		Email:         domain.NormalizeEmail(participant.Email),
		Name:          participant.Name,
		Grade:         participant.Grade,
		Timestamp:     r.now().UTC(),
		Score:         sub.Score.Correct,
		TotalAnswered: sub.Score.Total,
	}
	if err := r.history.Upsert(ctx, rec); err != nil {
		log.Printf("submission: local history update failed for %s: %v", rec.Email, err)
	}
	return sub, nil
}
