package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quiz-client/internal/config"
)

// NewPingCmd runs the remote diagnostic action.
func NewPingCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity with the exam service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd.Context(), *configPath, cmd.OutOrStdout())
		},
	}
}

func runPing(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	remote, err := newRemote(cfg)
	if err != nil {
		return err
	}
	resp, err := remote.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", resp.Raw)
	return nil
}
