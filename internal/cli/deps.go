package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-client/internal/app"
	"quiz-client/internal/config"
	"quiz-client/internal/infra/file"
	"quiz-client/internal/infra/memory"
	redisstore "quiz-client/internal/infra/redis"
	"quiz-client/internal/infra/sqlite"
	"quiz-client/internal/shuffle"
	"quiz-client/internal/transport"
)

// newRemote builds the exam service client from the remote section.
func newRemote(cfg config.Config) (*transport.Client, error) {
	if cfg.Remote.URL == "" {
		return nil, fmt.Errorf("remote url not configured (set remote.url or QUIZ_REMOTE_URL)")
	}
	tc := transport.DefaultConfig(cfg.Remote.URL)
	tc.WSURL = cfg.Remote.WSURL
	tc.Compat = cfg.Remote.Compat
	tc.ReadTimeout = config.Duration(cfg.Remote.ReadTimeout, tc.ReadTimeout)
	tc.WriteTimeout = config.Duration(cfg.Remote.WriteTimeout, tc.WriteTimeout)
	tc.BackoffStep = config.Duration(cfg.Remote.BackoffStep, tc.BackoffStep)
	if cfg.Remote.MaxAttempts > 0 {
		tc.MaxAttempts = cfg.Remote.MaxAttempts
	}
	return transport.NewClient(tc), nil
}

// openHistory opens the configured local history backend. The returned func releases it.
func openHistory(ctx context.Context, cfg config.Config) (app.HistoryStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.History.Backend {
	case "file":
		return file.NewHistoryStore(cfg.History.Path), noop, nil
	case "memory":
		return memory.NewHistoryStore(), noop, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		key := cfg.History.Key
		if key == "" {
			key = redisstore.DefaultKey
		}
		return redisstore.NewHistoryStore(client, key, config.Duration(cfg.History.TTL, 0)), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

// newController wires one participant session against the remote service and local history.
func newController(remote *transport.Client, history app.HistoryStore, bankTTL time.Duration) *app.Controller {
	return app.NewController(
		app.NewEligibilityGate(history, remote),
		memory.NewBankRepository(remote, bankTTL),
		app.NewReconciler(remote, history),
		shuffle.NewSessionRandomizer(),
	)
}
