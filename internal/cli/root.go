package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "quizctl",
		Short:        "Exam client: register, answer randomized questions and submit results",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewTakeCmd(&configPath))
	cmd.AddCommand(NewStatusCmd(&configPath))
	cmd.AddCommand(NewHistoryCmd(&configPath))
	cmd.AddCommand(NewPingCmd(&configPath))

	serve := NewServeCmd(&configPath, &port)
	serve.Flags().StringVar(&port, "port", "", "port to listen on (defaults to server.port or PORT)")
	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
