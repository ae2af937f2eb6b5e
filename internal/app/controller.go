package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"quiz-client/internal/domain"
	"quiz-client/internal/shuffle"
)

// QuestionBank serves the bank for the current session.
type QuestionBank interface {
	Questions(ctx context.Context) ([]domain.QuestionBankEntry, error)
	Invalidate()
}

// EventKind names a UI event.
type EventKind string

const (
	EventRegister EventKind = "register"
	EventSelect   EventKind = "select"
	EventNext     EventKind = "next"
	EventBack     EventKind = "back"
	EventFinish   EventKind = "finish"
	EventReset    EventKind = "reset"
)

// Event is emitted by the presentation layer.
type Event struct {
	Kind        EventKind
	Participant domain.Participant
	Option      string
}

// Snapshot is the state handed back to the presentation layer after every event.
type Snapshot struct {
	SessionID   string
	State       State
	Participant domain.Participant
	Question    *QuestionView
	Score       *domain.Score
	Review      []domain.AnswerRecord
	Saved       bool
	Message     string
}

type handlerFunc func(ctx context.Context, ev Event) error

// Controller owns one Session and maps UI events onto its transitions.
type Controller struct {
	mu         sync.Mutex
	session    *Session
	gate       *EligibilityGate
	bank       QuestionBank
	reconciler *Reconciler
	handlers   map[EventKind]handlerFunc

	saved     bool
	submitErr error
}

func NewController(gate *EligibilityGate, bank QuestionBank, reconciler *Reconciler, rnd *shuffle.Randomizer) *Controller {
	c := &Controller{
		session:    NewSession(rnd),
		gate:       gate,
		bank:       bank,
		reconciler: reconciler,
	}
	c.handlers = map[EventKind]handlerFunc{
		EventRegister: c.register,
		EventSelect:   c.selectAnswer,
		EventNext:     c.next,
		EventBack:     c.back,
		EventFinish:   c.finish,
		EventReset:    c.reset,
	}
	return c
}

// Dispatch applies one UI event. Events are serialized; the returned snapshot
// reflects the state after the event whether or not it was refused.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	handle, ok := c.handlers[ev.Kind]
	if !ok {
		return c.snapshot(), fmt.Errorf("unknown event %q", ev.Kind)
	}
	err := handle(ctx, ev)
	return c.snapshot(), err
}

// Snapshot returns the current state without applying an event.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) register(ctx context.Context, ev Event) error {
	if err := c.session.Register(ev.Participant); err != nil {
		return err
	}
	p := c.session.Participant()

	eligibility := c.gate.Check(ctx, p.Email)
	log.Printf("session %s: eligibility for %s is %v (%s)", c.session.ID(), p.Email, eligibility.Eligible, eligibility.Source)
	if !eligibility.Eligible {
		return c.session.Block()
	}

	if err := c.session.BeginLoading(); err != nil {
		return err
	}
	bank, err := c.bank.Questions(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrLoad) {
			err = fmt.Errorf("%w: %w", domain.ErrLoad, err)
		}
		return c.session.Fail(err)
	}
	if err := c.session.Load(bank); err != nil {
		return err
	}
	log.Printf("session %s: started with %d questions", c.session.ID(), c.session.Len())
	return c.display()
}

func (c *Controller) selectAnswer(_ context.Context, ev Event) error {
	return c.session.SelectAnswer(ev.Option)
}

func (c *Controller) next(_ context.Context, _ Event) error {
	return c.move(c.session.Advance)
}

func (c *Controller) back(_ context.Context, _ Event) error {
	return c.move(c.session.Back)
}

// move runs a navigation step and displays the question it lands on.
func (c *Controller) move(step func() error) error {
	before := c.session.Index()
	if err := step(); err != nil {
		return err
	}
	if c.session.Index() == before {
		return nil
	}
	return c.display()
}

// display presents the current question with a fresh option order.
func (c *Controller) display() error {
	_, err := c.session.Display()
	return err
}

func (c *Controller) finish(ctx context.Context, _ Event) error {
	if err := c.session.Finish(); err != nil {
		return err
	}
	sub, err := c.reconciler.Submit(ctx, c.session.Participant(), c.session.Ledger())
	if err != nil {
		return c.session.Fail(err)
	}
	c.saved = sub.Saved
	c.submitErr = sub.RemoteErr
	return c.session.Complete()
}

func (c *Controller) reset(_ context.Context, _ Event) error {
	if err := c.session.Reset(); err != nil {
		return err
	}
	c.bank.Invalidate()
	c.saved = false
	c.submitErr = nil
	return nil
}

func (c *Controller) snapshot() Snapshot {
	s := c.session
	snap := Snapshot{
		SessionID:   s.ID(),
		State:       s.State(),
		Participant: s.Participant(),
	}
	switch s.State() {
	case StateInProgress:
		if view, ok := s.View(); ok {
			snap.Question = &view
		}
	case StateCompleted:
		score := s.Score()
		snap.Score = &score
		snap.Review = s.Review()
		snap.Saved = c.saved
		if c.submitErr != nil {
			snap.Message = "results kept locally; remote save failed: " + c.submitErr.Error()
		}
	case StateError:
		if err := s.Err(); err != nil {
			snap.Message = err.Error()
		}
	}
	return snap
}
