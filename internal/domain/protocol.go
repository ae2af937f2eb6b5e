package domain

import "encoding/json"

// Action names an operation of the remote exam service.
type Action string

const (
	ActionGetQuestions       Action = "getQuestions"
	ActionCheckStudentStatus Action = "checkStudentStatus"
	ActionSaveResults        Action = "saveResults"
	ActionTest               Action = "test"
)

// Writes reports whether the action mutates remote state; writes get the longer timeout.
func (a Action) Writes() bool {
	return a == ActionSaveResults
}

// Response is the union of every action's reply. Success must be explicitly true.
type Response struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	Message      string              `json:"message,omitempty"`
	Questions    []QuestionBankEntry `json:"questions,omitempty"`
	HasTakenExam bool                `json:"hasTakenExam,omitempty"`
	Timestamp    string              `json:"timestamp,omitempty"`

	// Raw keeps the undecoded body for diagnostics.
	Raw json.RawMessage `json:"-"`
}
