package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"quiz-client/internal/domain"
)

// Config controls timeouts, retries and the optional compat transport.
type Config struct {
	URL          string
	WSURL        string
	Compat       bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxAttempts  int
	BackoffStep  time.Duration
}

// DefaultConfig mirrors the exam service limits: 10s reads, 15s writes, 3 attempts, 2s backoff step.
func DefaultConfig(url string) Config {
	return Config{
		URL:          url,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		MaxAttempts:  3,
		BackoffStep:  2 * time.Second,
	}
}

// Request is one logical operation. Validate, when set, can reject an otherwise
// successful response; a rejection counts as a failed attempt.
type Request struct {
	Action   domain.Action
	Params   map[string]any
	Validate func(domain.Response) error
}

// Result is the outcome of a single strategy attempt.
type Result struct {
	Strategy string
	Response domain.Response
	Err      error
}

// OK reports whether the attempt produced an accepted response.
func (r Result) OK() bool {
	return r.Err == nil
}

// Strategy is one way of reaching the remote service.
type Strategy interface {
	Name() string
	Send(ctx context.Context, req Request) Result
}

// Sleeper waits between attempts and must return early when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Client runs requests through an ordered list of strategies with retry and backoff.
type Client struct {
	cfg        Config
	compat     Strategy
	strategies []Strategy
	sleep      Sleeper
}

// Option customizes a Client.
type Option func(*Client)

// WithStrategies replaces the POST/GET pipeline.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Client) { c.strategies = strategies }
}

// WithCompatStrategy sets the single-attempt strategy tried before the pipeline.
func WithCompatStrategy(s Strategy) Option {
	return func(c *Client) { c.compat = s }
}

// WithSleeper replaces the backoff sleeper (tests record durations instead of waiting).
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 15 * time.Second
	}
	if cfg.BackoffStep < 0 {
		cfg.BackoffStep = 0
	}

	httpClient := &http.Client{}
	c := &Client{
		cfg: cfg,
		strategies: []Strategy{
			NewPostStrategy(cfg.URL, httpClient),
			NewGetStrategy(cfg.URL, httpClient, time.Now),
		},
		sleep: sleepContext,
	}
	if cfg.Compat {
		c.compat = NewWSStrategy(wsURL(cfg))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and returns the first accepted response. After MaxAttempts rounds
// the last error is returned.
func (c *Client) Do(ctx context.Context, req Request) (domain.Response, error) {
	timeout := c.timeout(req.Action)

	if c.compat != nil {
		res := c.try(ctx, c.compat, req, timeout)
		if res.OK() {
			return res.Response, nil
		}
		log.Printf("%s via %s failed, falling back: %v", req.Action, res.Strategy, res.Err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		for _, s := range c.strategies {
			res := c.try(ctx, s, req, timeout)
			if res.OK() {
				return res.Response, nil
			}
			lastErr = res.Err
			log.Printf("%s attempt %d/%d via %s failed: %v", req.Action, attempt, c.cfg.MaxAttempts, res.Strategy, res.Err)
			if ctx.Err() != nil {
				return domain.Response{}, fmt.Errorf("%w: %s canceled: %v", domain.ErrTransport, req.Action, ctx.Err())
			}
		}
		if attempt < c.cfg.MaxAttempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.cfg.BackoffStep); err != nil {
				return domain.Response{}, fmt.Errorf("%w: %s canceled: %v", domain.ErrTransport, req.Action, err)
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no transport strategy configured", domain.ErrTransport)
	}
	return domain.Response{}, fmt.Errorf("%s failed after %d attempts: %w", req.Action, c.cfg.MaxAttempts, lastErr)
}

func (c *Client) try(ctx context.Context, s Strategy, req Request, timeout time.Duration) Result {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := s.Send(attemptCtx, req)
	if res.Strategy == "" {
		res.Strategy = s.Name()
	}
	if res.Err == nil && req.Validate != nil {
		if err := req.Validate(res.Response); err != nil {
			res.Err = err
		}
	}
	return res
}

func (c *Client) timeout(action domain.Action) time.Duration {
	if action.Writes() {
		return c.cfg.WriteTimeout
	}
	return c.cfg.ReadTimeout
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
