package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/infra/memory"
	"quiz-client/internal/shuffle"
)

type harness struct {
	remote     *fakeRemote
	history    *memory.HistoryStore
	controller *app.Controller
}

func newHarness(bank []domain.QuestionBankEntry) *harness {
	h := &harness{remote: &fakeRemote{}, history: memory.NewHistoryStore()}
	repo := memory.NewBankRepository(memory.NewStaticBankLoader(bank), time.Minute)
	h.controller = app.NewController(
		app.NewEligibilityGate(h.history, h.remote),
		repo,
		app.NewReconciler(h.remote, h.history),
		shuffle.NewRandomizer(5),
	)
	return h
}

func (h *harness) dispatch(t *testing.T, ev app.Event) app.Snapshot {
	t.Helper()
	snap, err := h.controller.Dispatch(context.Background(), ev)
	if err != nil {
		t.Fatalf("dispatch %s: %v", ev.Kind, err)
	}
	return snap
}

func (h *harness) answerAll(t *testing.T, snap app.Snapshot) app.Snapshot {
	t.Helper()
	for snap.Question != nil {
		snap = h.dispatch(t, app.Event{Kind: app.EventSelect, Option: correctLetter(snap.Question.QuestionID)})
		if snap.Question.Last {
			return snap
		}
		snap = h.dispatch(t, app.Event{Kind: app.EventNext})
	}
	return snap
}

func TestControllerFullSession(t *testing.T) {
	h := newHarness(sampleBank())

	snap := h.dispatch(t, app.Event{Kind: app.EventRegister, Participant: participant()})
	if snap.State != app.StateInProgress || snap.Question == nil || snap.Question.Total != 3 {
		t.Fatalf("expected in progress, got %+v", snap)
	}

	_, err := h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventNext})
	if !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected answer required, got %v", err)
	}

	snap = h.answerAll(t, snap)
	snap = h.dispatch(t, app.Event{Kind: app.EventFinish})
	if snap.State != app.StateCompleted || snap.Score == nil {
		t.Fatalf("expected completed, got %+v", snap)
	}
	if snap.Score.Correct != 3 || snap.Score.Percentage != 100 || !snap.Saved {
		t.Fatalf("unexpected result %+v saved=%v", snap.Score, snap.Saved)
	}
	if _, ok, _ := h.history.Find(context.Background(), "alice@example.com"); !ok {
		t.Fatalf("expected history record")
	}

	_, err = h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventFinish})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected finish refused after completion, got %v", err)
	}
}

func TestControllerTransportFailureStillCompletes(t *testing.T) {
	h := newHarness(sampleBank())
	h.remote.saveErr = domain.ErrTransport

	snap := h.dispatch(t, app.Event{Kind: app.EventRegister, Participant: participant()})
	h.answerAll(t, snap)
	snap = h.dispatch(t, app.Event{Kind: app.EventFinish})
	if snap.State != app.StateCompleted || snap.Saved || snap.Message == "" {
		t.Fatalf("expected local completion with message, got %+v", snap)
	}
	if _, ok, _ := h.history.Find(context.Background(), "alice@example.com"); !ok {
		t.Fatalf("expected history record even though save failed")
	}

	snap = h.dispatch(t, app.Event{Kind: app.EventReset})
	if snap.State != app.StateUnregistered {
		t.Fatalf("expected reset, got %s", snap.State)
	}
	snap, err := h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventRegister, Participant: participant()})
	if !errors.Is(err, domain.ErrEligibilityBlocked) || snap.State != app.StateError {
		t.Fatalf("expected repeat email blocked locally, got %v in %s", err, snap.State)
	}
}

func TestControllerBlocksRemoteTaken(t *testing.T) {
	h := newHarness(sampleBank())
	h.remote.taken = true

	snap, err := h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventRegister, Participant: participant()})
	if !errors.Is(err, domain.ErrEligibilityBlocked) {
		t.Fatalf("expected blocked, got %v", err)
	}
	if snap.State != app.StateError || snap.Message == "" {
		t.Fatalf("expected error snapshot, got %+v", snap)
	}
}

func TestControllerValidationSkipsNetwork(t *testing.T) {
	h := newHarness(sampleBank())
	_, err := h.controller.Dispatch(context.Background(), app.Event{
		Kind:        app.EventRegister,
		Participant: domain.Participant{Name: "X", Email: "bad", Grade: "1"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if h.remote.statusCalls != 0 {
		t.Fatalf("expected no network call, got %d", h.remote.statusCalls)
	}
}

func TestControllerLoadFailure(t *testing.T) {
	h := newHarness(nil)
	snap, err := h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventRegister, Participant: participant()})
	if !errors.Is(err, domain.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if snap.State != app.StateError {
		t.Fatalf("expected error state, got %s", snap.State)
	}
}

func TestControllerUnknownEvent(t *testing.T) {
	h := newHarness(sampleBank())
	if _, err := h.controller.Dispatch(context.Background(), app.Event{Kind: "shake"}); err == nil {
		t.Fatalf("expected unknown event error")
	}
}

func TestControllerFinishMidSessionRefused(t *testing.T) {
	h := newHarness(sampleBank())
	snap := h.dispatch(t, app.Event{Kind: app.EventRegister, Participant: participant()})
	h.dispatch(t, app.Event{Kind: app.EventSelect, Option: correctLetter(snap.Question.QuestionID)})

	snap, err := h.controller.Dispatch(context.Background(), app.Event{Kind: app.EventFinish})
	if !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected answer required, got %v", err)
	}
	if snap.State != app.StateInProgress {
		t.Fatalf("expected to stay in progress, got %s", snap.State)
	}
	if h.remote.saveCalls != 0 {
		t.Fatalf("expected no remote save, got %d", h.remote.saveCalls)
	}
	if _, ok, _ := h.history.Find(context.Background(), "alice@example.com"); ok {
		t.Fatalf("partial exam must not consume eligibility")
	}
}

func TestControllerDisplaysFreshOptionsOnRevisit(t *testing.T) {
	h := newHarness(sampleBank())
	snap := h.dispatch(t, app.Event{Kind: app.EventRegister, Participant: participant()})
	first := snap.Question.QuestionID
	h.dispatch(t, app.Event{Kind: app.EventSelect, Option: correctLetter(first)})

	orders := map[string]bool{}
	for i := 0; i < 20; i++ {
		h.dispatch(t, app.Event{Kind: app.EventNext})
		snap = h.dispatch(t, app.Event{Kind: app.EventBack})
		if snap.Question.QuestionID != first {
			t.Fatalf("question order changed on revisit")
		}
		key := ""
		for _, opt := range snap.Question.Options {
			key += opt.Letter
		}
		orders[key] = true
	}
	if len(orders) < 2 {
		t.Fatalf("expected options reshuffled across revisits, saw %v", orders)
	}

	before := h.controller.Snapshot().Question.Options
	again := h.controller.Snapshot().Question.Options
	for i := range before {
		if before[i] != again[i] {
			t.Fatalf("snapshot without navigation must not reshuffle")
		}
	}
}
