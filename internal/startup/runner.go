// Package startup runs one-time initialization with bounded retry.
//
// The HTTP layer starts serving before initialization completes; only the
// readiness probe consumes the runner's state. Exhausting all attempts is
// terminal: the process keeps running but never reports ready again without
// a restart.
package startup

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the initialization lifecycle state.
type State int32

const (
	StateNotStarted State = iota
	StateInitializing
	StateReady
	StateFailed // terminal; no transition out without process restart
)

// String returns the lowercase state name used in logs and debug output.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	defaultAttempts = 60
	defaultBackoff  = time.Second
)

// Runner retries an initialization function until it succeeds or the attempt
// budget is exhausted. Each attempt is independent; transient failures never
// abort the process.
type Runner struct {
	fn       func(ctx context.Context) error
	attempts int
	backoff  time.Duration
	logger   *slog.Logger

	state  atomic.Int32
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithAttempts overrides the attempt budget.
func WithAttempts(n int) Option {
	return func(r *Runner) { r.attempts = n }
}

// WithBackoff overrides the fixed delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(r *Runner) { r.backoff = d }
}

// NewRunner creates a runner for fn with a 60-attempt, 1-second-backoff
// budget by default.
func NewRunner(fn func(ctx context.Context) error, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		fn:       fn,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Start launches the retry loop in a goroutine and returns immediately.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.state.Store(int32(StateInitializing))
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

// Stop cancels a pending loop and waits for it to exit. A runner that already
// reached READY or FAILED keeps its state.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context) {
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err := r.fn(ctx)
		if err == nil {
			r.state.Store(int32(StateReady))
			r.logger.Info("initialization completed", "attempt", attempt)
			return
		}

		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("initialization attempt failed", "attempt", attempt, "attempts", r.attempts, "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.backoff):
		}
	}

	r.state.Store(int32(StateFailed))
	r.logger.Error("initialization failed; readiness will stay degraded until restart", "attempts", r.attempts)
}
