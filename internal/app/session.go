package app

import (
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"

	"quiz-client/internal/domain"
	"quiz-client/internal/shuffle"
)

// State is a stage of the participant lifecycle.
type State int

const (
	StateUnregistered State = iota
	StateRegistering
	StateLoading
	StateInProgress
	StateSubmitting
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistering:
		return "registering"
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// QuestionView is what the presentation layer needs to render the current question.
type QuestionView struct {
	Index      int
	Total      int
	QuestionID domain.QuestionID
	Prompt     string
	Options    []domain.Option
	Selected   string
	Answered   bool
	Last       bool
}

// Session is one participant's lifecycle. Its methods are pure transitions;
// network and storage work is driven by the Controller.
type Session struct {
	id    string
	rnd   *shuffle.Randomizer
	state State
	err   error

	participant domain.Participant
	order       []domain.QuestionBankEntry
	index       int
	options     []domain.Option
	ledger      []*domain.AnswerRecord
	score       domain.Score
}

func NewSession(rnd *shuffle.Randomizer) *Session {
	return &Session{id: uuid.NewString(), rnd: rnd}
}

func (s *Session) ID() string                      { return s.id }
func (s *Session) State() State                    { return s.state }
func (s *Session) Err() error                      { return s.err }
func (s *Session) Participant() domain.Participant { return s.participant }
func (s *Session) Score() domain.Score             { return s.score }

// Index is the position of the current question in the session order.
func (s *Session) Index() int { return s.index }

// Len is the fixed length of the session question order.
func (s *Session) Len() int { return len(s.order) }

// Order returns a copy of the frozen question order.
func (s *Session) Order() []domain.QuestionBankEntry {
	return append([]domain.QuestionBankEntry(nil), s.order...)
}

// Ledger returns the answer slots; nil entries are unanswered.
func (s *Session) Ledger() []*domain.AnswerRecord {
	return append([]*domain.AnswerRecord(nil), s.ledger...)
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, op, s.state)
}

func (s *Session) fail(err error) error {
	s.state = StateError
	s.err = err
	return err
}

// Register validates identity and moves to Registering. Invalid input ends in Error.
func (s *Session) Register(p domain.Participant) error {
	if s.state != StateUnregistered {
		return s.invalid("register")
	}
	p = normalizeParticipant(p)
	s.participant = p
	s.state = StateRegistering
	if err := ValidateParticipant(p); err != nil {
		return s.fail(err)
	}
	return nil
}

// Block ends the attempt because the email already completed the exam.
func (s *Session) Block() error {
	if s.state != StateRegistering {
		return s.invalid("block")
	}
	return s.fail(fmt.Errorf("%w: %s", domain.ErrEligibilityBlocked, s.participant.Email))
}

func (s *Session) BeginLoading() error {
	if s.state != StateRegistering {
		return s.invalid("load")
	}
	s.state = StateLoading
	return nil
}

// Fail moves a registering, loading or submitting session to Error.
func (s *Session) Fail(err error) error {
	switch s.state {
	case StateRegistering, StateLoading, StateSubmitting:
		return s.fail(err)
	default:
		return s.invalid("fail")
	}
}

// Load freezes the question order and starts the session at index 0.
// Entries without a prompt or a valid correct letter are dropped.
func (s *Session) Load(bank []domain.QuestionBankEntry) error {
	if s.state != StateLoading {
		return s.invalid("load")
	}
	usable := make([]domain.QuestionBankEntry, 0, len(bank))
	for _, q := range bank {
		if !q.Valid() {
			log.Printf("session %s: skipping malformed question %q", s.id, q.ID)
			continue
		}
		usable = append(usable, q)
	}
	if len(usable) == 0 {
		return s.fail(fmt.Errorf("%w: no usable questions in bank of %d", domain.ErrLoad, len(bank)))
	}

	s.order = s.rnd.QuestionOrder(usable)
	s.index = 0
	s.ledger = make([]*domain.AnswerRecord, len(s.order))
	s.options = nil
	s.state = StateInProgress
	return nil
}

// present reshuffles the options of the current question.
func (s *Session) present() {
	s.options = s.rnd.OptionOrder(s.order[s.index])
}

func (s *Session) answered() bool {
	return s.ledger[s.index] != nil
}

// View returns the current question without reshuffling. Options are only
// shuffled here if the question has not been displayed yet.
func (s *Session) View() (QuestionView, bool) {
	if s.state != StateInProgress {
		return QuestionView{}, false
	}
	if s.options == nil {
		s.present()
	}
	q := s.order[s.index]
	view := QuestionView{
		Index:      s.index,
		Total:      len(s.order),
		QuestionID: q.ID,
		Prompt:     q.Question,
		Options:    append([]domain.Option(nil), s.options...),
		Answered:   s.answered(),
		Last:       s.index == len(s.order)-1,
	}
	if rec := s.ledger[s.index]; rec != nil {
		view.Selected = rec.SelectedOption
	}
	return view, true
}

// Display renders the current question again with a fresh option order.
func (s *Session) Display() (QuestionView, error) {
	if s.state != StateInProgress {
		return QuestionView{}, s.invalid("display")
	}
	s.present()
	view, _ := s.View()
	return view, nil
}

// SelectAnswer records or overwrites the answer for the current question.
func (s *Session) SelectAnswer(letter string) error {
	if s.state != StateInProgress {
		return s.invalid("select")
	}
	letter = domain.NormalizeLetter(letter)
	if !domain.IsLetter(letter) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOption, letter)
	}
	q := s.order[s.index]
	id := q.ID
	if id == "" {
		id = domain.QuestionID(strconv.Itoa(s.index + 1))
	}
	correct := q.CorrectLetter()
	s.ledger[s.index] = &domain.AnswerRecord{
		QuestionID:     id,
		Question:       q.Question,
		SelectedOption: letter,
		CorrectOption:  correct,
		IsCorrect:      letter == correct,
	}
	return nil
}

// Advance moves to the next question. It is a no-op on the last question.
func (s *Session) Advance() error {
	if s.state != StateInProgress {
		return s.invalid("advance")
	}
	if !s.answered() {
		return domain.ErrAnswerRequired
	}
	if s.index < len(s.order)-1 {
		s.index++
		s.options = nil
	}
	return nil
}

// Back returns to the previous question, keeping the frozen order.
func (s *Session) Back() error {
	if s.state != StateInProgress {
		return s.invalid("back")
	}
	if s.index > 0 {
		s.index--
		s.options = nil
	}
	return nil
}

// Finish closes answering and moves to Submitting. Every question must be answered.
func (s *Session) Finish() error {
	if s.state != StateInProgress {
		return s.invalid("finish")
	}
	if !s.answered() {
		return domain.ErrAnswerRequired
	}
	for i, rec := range s.ledger {
		if rec == nil {
			return fmt.Errorf("%w: question %d of %d is unanswered", domain.ErrAnswerRequired, i+1, len(s.ledger))
		}
	}
	s.state = StateSubmitting
	return nil
}

// Complete scores the ledger and moves to Completed.
func (s *Session) Complete() error {
	if s.state != StateSubmitting {
		return s.invalid("complete")
	}
	s.score = domain.Tally(domain.WellFormed(s.ledger))
	s.state = StateCompleted
	return nil
}

// Review lists the well-formed answers for the results screen.
func (s *Session) Review() []domain.AnswerRecord {
	return domain.WellFormed(s.ledger)
}

// Reset starts over with a new session id.
func (s *Session) Reset() error {
	if s.state != StateCompleted && s.state != StateError {
		return s.invalid("reset")
	}
	*s = Session{id: uuid.NewString(), rnd: s.rnd}
	return nil
}
