package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-client/internal/bankserver"
	"quiz-client/internal/domain"
	"quiz-client/internal/infra/memory"
	"quiz-client/internal/transport"
	bankhttp "quiz-client/internal/transport/http"
)

func newTestService(t *testing.T) (*bankserver.MemoryResultStore, *transport.Client) {
	t.Helper()
	results := bankserver.NewMemoryResultStore()
	service := bankserver.NewService(bankserver.NewStaticQuestionSource(bankserver.SampleQuestions()), results)
	server := httptest.NewServer(bankhttp.NewRouter(service))
	t.Cleanup(server.Close)
	return results, transport.NewClient(transport.DefaultConfig(server.URL + "/exec"))
}

func answerAll(n int) string {
	var b strings.Builder
	for i := 0; i < n-1; i++ {
		b.WriteString("1\nn\n")
	}
	b.WriteString("1\nf\n")
	return b.String()
}

func TestPresenterTakesExamAndSavesResults(t *testing.T) {
	results, remote := newTestService(t)
	history := memory.NewHistoryStore()
	ctrl := newController(remote, history, 0)

	n := len(bankserver.SampleQuestions())
	input := strings.NewReader(answerAll(n) + "q\n")
	var out bytes.Buffer
	participant := domain.Participant{Name: "Ada", Email: "Ada@Example.com", Grade: "10"}

	if err := newPresenter(ctrl, input, &out).run(context.Background(), participant); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Score:") || !strings.Contains(out.String(), "Your results were saved.") {
		t.Fatalf("missing results screen:\n%s", out.String())
	}
	saved := results.Results("ada@example.com")
	if len(saved) != 1 || len(saved[0].Answers) != n {
		t.Fatalf("expected one saved result with %d answers, got %+v", n, saved)
	}
	if _, found, _ := history.Find(context.Background(), "ada@example.com"); !found {
		t.Fatalf("expected local history entry")
	}
}

func TestPresenterRequiresAnswerBeforeNext(t *testing.T) {
	_, remote := newTestService(t)
	ctrl := newController(remote, memory.NewHistoryStore(), 0)

	var out bytes.Buffer
	participant := domain.Participant{Name: "Ada", Email: "ada@example.com", Grade: "10"}
	if err := newPresenter(ctrl, strings.NewReader("n\nq\n"), &out).run(context.Background(), participant); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Please select an answer") {
		t.Fatalf("expected answer prompt:\n%s", out.String())
	}
	if got := ctrl.Snapshot().Question.Index; got != 0 {
		t.Fatalf("expected to stay on first question, got %d", got)
	}
}

func TestPresenterBlocksRepeatAttempt(t *testing.T) {
	_, remote := newTestService(t)
	history := memory.NewHistoryStore()
	participant := domain.Participant{Name: "Ada", Email: "ada@example.com", Grade: "10"}
	n := len(bankserver.SampleQuestions())

	first := newController(remote, history, 0)
	if err := newPresenter(first, strings.NewReader(answerAll(n)+"q\n"), &bytes.Buffer{}).run(context.Background(), participant); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var out bytes.Buffer
	second := newController(remote, history, 0)
	if err := newPresenter(second, strings.NewReader("q\n"), &out).run(context.Background(), participant); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out.String(), "already completed") {
		t.Fatalf("expected block message:\n%s", out.String())
	}
}

func TestPresenterPromptsForMissingFields(t *testing.T) {
	_, remote := newTestService(t)
	ctrl := newController(remote, memory.NewHistoryStore(), 0)

	var out bytes.Buffer
	input := strings.NewReader("Grace\ngrace@example.com\n11\nq\n")
	if err := newPresenter(ctrl, input, &out).run(context.Background(), domain.Participant{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.Participant.Email != "grace@example.com" || snap.Question == nil {
		t.Fatalf("expected a started session, got %+v", snap)
	}
}
