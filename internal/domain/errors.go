package domain

import "errors"

var (
	// ErrValidation is returned when registration input is incomplete or malformed.
	ErrValidation = errors.New("invalid registration")
	// ErrEligibilityBlocked indicates the email has already been used for this exam.
	ErrEligibilityBlocked = errors.New("email already used for this exam")
	// ErrTransport covers HTTP, timeout and response parsing failures.
	ErrTransport = errors.New("transport failure")
	// ErrLoad indicates the question bank was empty or malformed.
	ErrLoad = errors.New("question bank unavailable")
	// ErrAnswerRequired blocks navigation until the current question is answered.
	ErrAnswerRequired = errors.New("an answer is required before continuing")
	// ErrNoValidAnswers blocks submission when the ledger has no well-formed answers.
	ErrNoValidAnswers = errors.New("no valid answers to submit")
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	// ErrInvalidOption indicates a selection outside A-D.
	ErrInvalidOption = errors.New("option not found")
	// ErrQuestionsUnavailable is returned by question sources that hold no questions.
	ErrQuestionsUnavailable = errors.New("no questions available")
)
