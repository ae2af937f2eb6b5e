package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Option letters in canonical order.
var Letters = []string{"A", "B", "C", "D"}

// Participant identifies the person taking the exam. Email is the natural key.
type Participant struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,emailshape"`
	Age   *int   `json:"age" validate:"omitempty,min=1,max=120"`
	Grade string `json:"grade" validate:"required"`
}

// QuestionID accepts both JSON strings and numbers; spreadsheet backends emit numbers.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

// QuestionBankEntry is a multiple choice question as served by the remote service.
type QuestionBankEntry struct {
	ID       QuestionID `json:"id"`
	Question string     `json:"question"`
	OptionA  string     `json:"optionA"`
	OptionB  string     `json:"optionB"`
	OptionC  string     `json:"optionC"`
	OptionD  string     `json:"optionD"`
	Correct  string     `json:"correct"`
}

// Option is one answer choice, identified by its letter.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Options returns the four choices in A-D order.
func (q QuestionBankEntry) Options() []Option {
	return []Option{
		{Letter: "A", Text: q.OptionA},
		{Letter: "B", Text: q.OptionB},
		{Letter: "C", Text: q.OptionC},
		{Letter: "D", Text: q.OptionD},
	}
}

// CorrectLetter returns the normalized correct letter.
func (q QuestionBankEntry) CorrectLetter() string {
	return NormalizeLetter(q.Correct)
}

// Valid reports whether the entry has a prompt and a correct letter in A-D.
func (q QuestionBankEntry) Valid() bool {
	return strings.TrimSpace(q.Question) != "" && IsLetter(q.CorrectLetter())
}

// NormalizeLetter upper-cases and trims an option letter.
func NormalizeLetter(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}

// IsLetter reports whether letter is one of A-D.
func IsLetter(letter string) bool {
	for _, l := range Letters {
		if l == letter {
			return true
		}
	}
	return false
}

// AnswerRecord is one slot of the answer ledger.
type AnswerRecord struct {
	QuestionID     QuestionID `json:"questionId"`
	Question       string     `json:"question"`
	SelectedOption string     `json:"selectedOption"`
	CorrectOption  string     `json:"correctOption"`
	IsCorrect      bool       `json:"isCorrect"`
}

// WellFormed reports whether the record carries question text, a selection and a correct option.
// IsCorrect is derived, so it is not part of the check.
func (a *AnswerRecord) WellFormed() bool {
	return a != nil && a.Question != "" && a.SelectedOption != "" && a.CorrectOption != ""
}

// WellFormed filters a sparse ledger down to its well-formed records.
func WellFormed(ledger []*AnswerRecord) []AnswerRecord {
	out := make([]AnswerRecord, 0, len(ledger))
	for _, rec := range ledger {
		if rec.WellFormed() {
			out = append(out, *rec)
		}
	}
	return out
}

// Score summarizes a finished session.
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Incorrect is the number of answered questions that were wrong.
func (s Score) Incorrect() int {
	return s.Total - s.Correct
}

// Tally scores well-formed records; malformed ones are ignored.
func Tally(records []AnswerRecord) Score {
	score := Score{}
	for i := range records {
		if !records[i].WellFormed() {
			continue
		}
		score.Total++
		if records[i].IsCorrect {
			score.Correct++
		}
	}
	if score.Total > 0 {
		score.Percentage = int(math.Round(float64(score.Correct) * 100 / float64(score.Total)))
	}
	return score
}

// EligibilityRecord is the locally cached proof that an email completed the exam.
type EligibilityRecord struct {
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Grade         string    `json:"grade"`
	Timestamp     time.Time `json:"timestamp"`
	Score         int       `json:"score"`
	TotalAnswered int       `json:"totalAnswered"`
}

// NormalizeEmail trims and lower-cases an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
