// Package runner executes engine runs on behalf of callers that need a
// wall-clock bound. The engine itself is a pure function; everything here is
// scheduling around it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tstirrat/wow-threat-sub003/internal/engine"
)

// DefaultTimeout bounds one background attempt.
const DefaultTimeout = 2 * time.Minute

// Runner dispatches engine runs to a background goroutine with a timeout,
// falling back to a synchronous in-process run when the background attempt
// fails. The fallback is safe because the engine is side-effect-free and
// re-entrant on the same inputs.
type Runner struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// New returns a runner with the default timeout.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Timeout: DefaultTimeout, Logger: logger}
}

type runResult struct {
	out *engine.Output
	err error
}

// Run processes the input, preferring a background attempt. Cancellation is
// coarse-grained: the context is checked before dispatch, not mid-run.
func (r *Runner) Run(ctx context.Context, in engine.Input) (*engine.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	done := make(chan runResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- runResult{err: fmt.Errorf("background run panicked: %v", rec)}
			}
		}()
		out, err := engine.Process(in)
		done <- runResult{out: out, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err == nil {
			return res.out, nil
		}
		if !recoverable(res.err) {
			return nil, res.err
		}
		r.Logger.Warn("background run failed, retrying synchronously", zap.Error(res.err))
	case <-timer.C:
		r.Logger.Warn("background run timed out, retrying synchronously",
			zap.Duration("timeout", timeout))
	}

	return engine.Process(in)
}

// recoverable reports whether a synchronous retry could help. Contract
// errors (missing index/config) will fail identically and are returned
// as-is.
func recoverable(err error) bool {
	return !errors.Is(err, engine.ErrMissingInput)
}
