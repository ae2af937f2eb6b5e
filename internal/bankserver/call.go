package bankserver

import (
	"encoding/json"
	"fmt"
	"net/url"

	"quiz-client/internal/domain"
)

// Call is a decoded request, whichever transport carried it.
type Call struct {
	Action      domain.Action
	Email       string
	StudentData *domain.Participant
	Answers     []domain.AnswerRecord
}

type wireCall struct {
	Action      domain.Action         `json:"action"`
	Email       string                `json:"email"`
	StudentData *domain.Participant   `json:"studentData"`
	Answers     []domain.AnswerRecord `json:"answers"`
}

// A request without an action asks for the questions.
func (c Call) withDefaults() Call {
	if c.Action == "" {
		c.Action = domain.ActionGetQuestions
	}
	return c
}

// CallFromJSON decodes a POST body or websocket message.
func CallFromJSON(data []byte) (Call, error) {
	var w wireCall
	if err := json.Unmarshal(data, &w); err != nil {
		return Call{}, fmt.Errorf("invalid request body: %w", err)
	}
	return Call(w).withDefaults(), nil
}

// CallFromQuery decodes the GET form, where nested objects arrive JSON-encoded.
func CallFromQuery(q url.Values) (Call, error) {
	call := Call{
		Action: domain.Action(q.Get("action")),
		Email:  q.Get("email"),
	}
	if raw := q.Get("studentData"); raw != "" {
		var p domain.Participant
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return Call{}, fmt.Errorf("invalid studentData: %w", err)
		}
		call.StudentData = &p
	}
	if raw := q.Get("answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &call.Answers); err != nil {
			return Call{}, fmt.Errorf("invalid answers: %w", err)
		}
	}
	return call.withDefaults(), nil
}
