package transport

import (
	"context"
	"fmt"

	"quiz-client/internal/domain"
)

// LoadBank fetches the question bank. An empty bank is a failed attempt and is retried.
func (c *Client) LoadBank(ctx context.Context) ([]domain.QuestionBankEntry, error) {
	resp, err := c.Do(ctx, Request{
		Action:   domain.ActionGetQuestions,
		Validate: requireQuestions,
	})
	if err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func requireQuestions(resp domain.Response) error {
	if len(resp.Questions) == 0 {
		return fmt.Errorf("%w: response carried no questions", domain.ErrLoad)
	}
	return nil
}

// HasTakenExam asks the remote service whether email already has saved results.
func (c *Client) HasTakenExam(ctx context.Context, email string) (bool, error) {
	resp, err := c.Do(ctx, Request{
		Action: domain.ActionCheckStudentStatus,
		Params: map[string]any{"email": email},
	})
	if err != nil {
		return false, err
	}
	return resp.HasTakenExam, nil
}

// SaveResults submits the participant and their well-formed answers.
func (c *Client) SaveResults(ctx context.Context, participant domain.Participant, answers []domain.AnswerRecord) error {
	_, err := c.Do(ctx, Request{
		Action: domain.ActionSaveResults,
		Params: map[string]any{
			"studentData": participant,
			"answers":     answers,
		},
	})
	return err
}

// Ping runs the diagnostic action and returns the raw reply.
func (c *Client) Ping(ctx context.Context) (domain.Response, error) {
	return c.Do(ctx, Request{Action: domain.ActionTest})
}
