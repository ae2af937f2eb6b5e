package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quiz-client/internal/app"
	"quiz-client/internal/config"
	"quiz-client/internal/domain"
)

// NewTakeCmd runs an interactive exam session in the terminal.
func NewTakeCmd(configPath *string) *cobra.Command {
	var (
		participant domain.Participant
		age         int
		ephemeral   bool
	)
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the exam interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if age > 0 {
				participant.Age = &age
			}
			return runTake(cmd.Context(), *configPath, ephemeral, participant, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&participant.Name, "name", "", "participant name")
	cmd.Flags().StringVar(&participant.Email, "email", "", "participant email")
	cmd.Flags().IntVar(&age, "age", 0, "participant age (optional)")
	cmd.Flags().StringVar(&participant.Grade, "grade", "", "participant grade")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep eligibility history in memory only")
	return cmd
}

func runTake(ctx context.Context, configPath string, ephemeral bool, participant domain.Participant, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if ephemeral {
		cfg.History.Backend = "memory"
	}
	remote, err := newRemote(cfg)
	if err != nil {
		return err
	}
	history, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	ctrl := newController(remote, history, config.Duration(cfg.Quiz.BankTTL, 0))
	return newPresenter(ctrl, in, out).run(ctx, participant)
}

// presenter renders controller snapshots as text and turns typed commands into events.
type presenter struct {
	ctrl *app.Controller
	in   *bufio.Scanner
	out  io.Writer
}

var errQuit = errors.New("quit")

func newPresenter(ctrl *app.Controller, in io.Reader, out io.Writer) *presenter {
	return &presenter{ctrl: ctrl, in: bufio.NewScanner(in), out: out}
}

func (p *presenter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ask prompts and returns the trimmed line; io.EOF when input is exhausted.
func (p *presenter) ask(prompt string) (string, error) {
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *presenter) run(ctx context.Context, participant domain.Participant) error {
	err := p.loop(ctx, participant)
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (p *presenter) loop(ctx context.Context, participant domain.Participant) error {
	for {
		snap := p.ctrl.Snapshot()
		var err error
		switch snap.State {
		case app.StateUnregistered:
			err = p.register(ctx, participant)
		case app.StateInProgress:
			err = p.question(ctx, snap)
		case app.StateCompleted:
			p.results(snap)
			err = p.again(ctx)
		case app.StateError:
			p.printf("\n%s\n", explain(snap.Message))
			participant = domain.Participant{}
			err = p.again(ctx)
		default:
			return fmt.Errorf("unexpected session state %s", snap.State)
		}
		if err != nil {
			return err
		}
	}
}

func (p *presenter) register(ctx context.Context, participant domain.Participant) error {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &participant.Name},
		{"Email", &participant.Email},
		{"Grade", &participant.Grade},
	}
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		v, err := p.ask(f.label + ": ")
		if err != nil {
			return err
		}
		*f.dst = v
	}
	p.printf("Checking eligibility and loading questions...\n")
	_, err := p.ctrl.Dispatch(ctx, app.Event{Kind: app.EventRegister, Participant: participant})
	if err != nil && !isSessionOutcome(err) {
		return err
	}
	return nil
}

func (p *presenter) question(ctx context.Context, snap app.Snapshot) error {
	q := snap.Question
	p.printf("\nQuestion %d of %d\n%s\n", q.Index+1, q.Total, q.Prompt)
	for i, opt := range q.Options {
		mark := " "
		if opt.Letter == q.Selected {
			mark = "*"
		}
		p.printf(" %s %d) %s\n", mark, i+1, opt.Text)
	}
	hint := "[1-4] select, n next, b back, q quit"
	if q.Last {
		hint = "[1-4] select, f finish, b back, q quit"
	}
	line, err := p.ask(hint + "> ")
	if err != nil {
		return err
	}

	var ev app.Event
	switch cmd := strings.ToLower(line); cmd {
	case "q":
		return errQuit
	case "n":
		ev.Kind = app.EventNext
	case "b":
		ev.Kind = app.EventBack
	case "f":
		if !q.Last {
			p.printf("Finish is available on the last question.\n")
			return nil
		}
		p.printf("Submitting results...\n")
		ev.Kind = app.EventFinish
	default:
		n, convErr := strconv.Atoi(cmd)
		if convErr != nil || n < 1 || n > len(q.Options) {
			p.printf("Unknown command %q.\n", line)
			return nil
		}
		ev = app.Event{Kind: app.EventSelect, Option: q.Options[n-1].Letter}
	}

	_, err = p.ctrl.Dispatch(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAnswerRequired):
		p.printf("Please select an answer before continuing.\n")
	case isSessionOutcome(err):
	default:
		return err
	}
	return nil
}

func (p *presenter) results(snap app.Snapshot) {
	s := snap.Score
	p.printf("\nThanks, %s. Score: %d/%d (%d%%)\n", snap.Participant.Name, s.Correct, s.Total, s.Percentage)
	if snap.Saved {
		p.printf("Your results were saved.\n")
	} else if snap.Message != "" {
		p.printf("%s\n", snap.Message)
	}
	for i, rec := range snap.Review {
		verdict := "correct"
		if !rec.IsCorrect {
			verdict = "wrong, answer " + rec.CorrectOption
		}
		p.printf("%2d. %s: %s (%s)\n", i+1, rec.Question, rec.SelectedOption, verdict)
	}
}

func (p *presenter) again(ctx context.Context) error {
	line, err := p.ask("\nr restart, q quit> ")
	if err != nil {
		return err
	}
	if strings.ToLower(line) != "r" {
		return errQuit
	}
	_, err = p.ctrl.Dispatch(ctx, app.Event{Kind: app.EventReset})
	return err
}

// isSessionOutcome reports errors that already moved the session to Error and are
// shown from its snapshot.
func isSessionOutcome(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrEligibilityBlocked,
		domain.ErrLoad,
		domain.ErrNoValidAnswers,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func explain(message string) string {
	switch {
	case strings.Contains(message, domain.ErrEligibilityBlocked.Error()):
		return "This email has already completed the exam."
	case message == "":
		return "Something went wrong."
	default:
		return "Error: " + message
	}
}
