package bankserver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"quiz-client/internal/domain"
)

// QuestionSource loads the question bank from a backing store (spreadsheet, database, memory).
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.QuestionBankEntry, error)
}

// ResultStore persists submitted results and answers status checks.
type ResultStore interface {
	HasResults(ctx context.Context, email string) (bool, error)
	SaveResult(ctx context.Context, result Result) error
}

// Result is one saved submission.
type Result struct {
	ID          string
	Student     domain.Participant
	Answers     []domain.AnswerRecord
	Score       domain.Score
	SubmittedAt time.Time
}

// Service answers the exam service actions.
type Service struct {
	questions QuestionSource
	results   ResultStore
	now       func() time.Time
}

func NewService(questions QuestionSource, results ResultStore) *Service {
	return &Service{questions: questions, results: results, now: time.Now}
}

func failure(format string, args ...any) domain.Response {
	return domain.Response{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Handle runs one call. Failures are reported in the response, never as Go errors,
// so every transport can send them back unchanged.
func (s *Service) Handle(ctx context.Context, call Call) domain.Response {
	switch call.Action {
	case domain.ActionGetQuestions:
		return s.getQuestions(ctx)
	case domain.ActionCheckStudentStatus:
		return s.checkStudentStatus(ctx, call.Email)
	case domain.ActionSaveResults:
		return s.saveResults(ctx, call.StudentData, call.Answers)
	case domain.ActionTest:
		return domain.Response{
			Success:   true,
			Message:   "exam service is reachable",
			Timestamp: s.now().UTC().Format(time.RFC3339),
		}
	default:
		return failure("unknown action %q", call.Action)
	}
}

func (s *Service) getQuestions(ctx context.Context) domain.Response {
	questions, err := s.questions.LoadQuestions(ctx)
	if err != nil {
		log.Printf("load questions: %v", err)
		return failure("failed to load questions: %v", err)
	}
	if len(questions) == 0 {
		return failure("%v", domain.ErrQuestionsUnavailable)
	}
	return domain.Response{Success: true, Questions: questions}
}

func (s *Service) checkStudentStatus(ctx context.Context, email string) domain.Response {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return failure("email is required")
	}
	taken, err := s.results.HasResults(ctx, email)
	if err != nil {
		log.Printf("check status %s: %v", email, err)
		return failure("failed to check student status: %v", err)
	}
	return domain.Response{Success: true, HasTakenExam: taken}
}

func (s *Service) saveResults(ctx context.Context, student *domain.Participant, answers []domain.AnswerRecord) domain.Response {
	if student == nil || strings.TrimSpace(student.Email) == "" {
		return failure("studentData with an email is required")
	}
	if len(answers) == 0 {
		return failure("answers are required")
	}
	p := *student
	p.Email = domain.NormalizeEmail(p.Email)

	result := Result{
		ID:          uuid.NewString(),
		Student:     p,
		Answers:     answers,
		Score:       domain.Tally(answers),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.results.SaveResult(ctx, result); err != nil {
		log.Printf("save results %s: %v", p.Email, err)
		return failure("failed to save results: %v", err)
	}
	log.Printf("saved results %s for %s: %d/%d", result.ID, p.Email, result.Score.Correct, result.Score.Total)
	return domain.Response{Success: true, Message: "results saved"}
}
