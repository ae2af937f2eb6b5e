package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"quiz-client/internal/config"
)

// NewHistoryCmd lists the local eligibility history; "history clear" wipes it.
func NewHistoryCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List locally recorded exam attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd.Context(), *configPath, cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all locally recorded exam attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(cmd.Context(), *configPath, cmd.OutOrStdout())
		},
	})
	return cmd
}

func runHistoryList(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	history, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	records, err := history.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "no recorded attempts")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tGRADE\tSCORE\tWHEN")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
			rec.Email, rec.Name, rec.Grade, rec.Score, rec.TotalAnswered, rec.Timestamp.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runHistoryClear(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	history, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	if err := history.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "history cleared")
	return nil
}
