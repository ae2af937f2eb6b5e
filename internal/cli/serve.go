package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quiz-client/internal/bankserver"
	"quiz-client/internal/config"
	pgstore "quiz-client/internal/infra/postgres"
	"quiz-client/internal/infra/xlsx"
	transport "quiz-client/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that runs a local exam service.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an exam service the client can talk to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var pool *pgxpool.Pool
	if cfg.Server.Questions == "postgres" || cfg.Server.Results == "postgres" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var questions bankserver.QuestionSource
	switch cfg.Server.Questions {
	case "static":
		questions = bankserver.NewStaticQuestionSource(bankserver.SampleQuestions())
	case "xlsx":
		questions = xlsx.NewQuestionSource(cfg.Server.XLSXPath, cfg.Server.Sheet)
	case "postgres":
		questions = pgstore.NewQuestionSource(pool)
	default:
		return fmt.Errorf("unknown question source %q", cfg.Server.Questions)
	}

	var results bankserver.ResultStore
	switch cfg.Server.Results {
	case "memory":
		results = bankserver.NewMemoryResultStore()
	case "postgres":
		results = pgstore.NewResultStore(pool)
	default:
		return fmt.Errorf("unknown result store %q", cfg.Server.Results)
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(bankserver.NewService(questions, results)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam service on :%s (questions=%s results=%s)", finalPort, cfg.Server.Questions, cfg.Server.Results)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
