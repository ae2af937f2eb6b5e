package app

import (
	"context"
	"log"

	"quiz-client/internal/domain"
)

// HistoryStore is the local collection of eligibility records, keyed by email.
type HistoryStore interface {
	List(ctx context.Context) ([]domain.EligibilityRecord, error)
	Find(ctx context.Context, email string) (domain.EligibilityRecord, bool, error)
	Upsert(ctx context.Context, rec domain.EligibilityRecord) error
	Clear(ctx context.Context) error
}

// StatusChecker asks the remote service whether an email already has results.
type StatusChecker interface {
	HasTakenExam(ctx context.Context, email string) (bool, error)
}

const (
	SourceLocal    = "local"
	SourceRemote   = "remote"
	SourceFailOpen = "fail-open"
)

// Eligibility is the gate decision and where it came from.
type Eligibility struct {
	Eligible bool
	Source   string
}

// EligibilityGate decides whether an email may start a new session.
type EligibilityGate struct {
	history HistoryStore
	remote  StatusChecker
}

func NewEligibilityGate(history HistoryStore, remote StatusChecker) *EligibilityGate {
	return &EligibilityGate{history: history, remote: remote}
}

// Check consults local history first and only then the remote service.
// Remote failures fail open so infrastructure problems never lock a participant out.
func (g *EligibilityGate) Check(ctx context.Context, email string) Eligibility {
	email = domain.NormalizeEmail(email)

	if _, found, err := g.history.Find(ctx, email); err != nil {
		log.Printf("eligibility: local history unreadable, checking remote: %v", err)
	} else if found {
		return Eligibility{Eligible: false, Source: SourceLocal}
	}

	taken, err := g.remote.HasTakenExam(ctx, email)
	if err != nil {
		log.Printf("eligibility: remote status check failed for %s, allowing: %v", email, err)
		return Eligibility{Eligible: true, Source: SourceFailOpen}
	}
	return Eligibility{Eligible: !taken, Source: SourceRemote}
}
