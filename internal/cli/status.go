package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quiz-client/internal/app"
	"quiz-client/internal/config"
)

// NewStatusCmd reports whether an email may start the exam.
func NewStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <email>",
		Short: "Check whether an email is eligible to take the exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), *configPath, args[0], cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, configPath, email string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
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

	res := app.NewEligibilityGate(history, remote).Check(ctx, email)
	verdict := "eligible"
	if !res.Eligible {
		verdict = "already taken"
	}
	fmt.Fprintf(out, "%s: %s (%s)\n", email, verdict, res.Source)
	return nil
}
