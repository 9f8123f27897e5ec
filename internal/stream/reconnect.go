package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// Errors
var (
	ErrClientClosed    = errors.New("stream client closed")
	ErrReconnectFailed = errors.New("reconnect attempts exhausted")
)

// reconnector retries a connect function with linearly growing delays.
//
// The delay before attempt n is baseDelay × n, capped at maxDelay. Growth
// is deliberately linear, not exponential; it matches the venue client
// behavior this terminal reproduces.
type reconnector struct {
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
	clk         clock.Clock
	logger      *slog.Logger
}

// delayFor returns the wait before attempt n (1-based).
func (r *reconnector) delayFor(attempt int) time.Duration {
	d := r.baseDelay * time.Duration(attempt)
	if r.maxDelay > 0 && d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}

// run retries connect until it succeeds, the attempt budget is spent, or
// done is closed. After maxAttempts consecutive failures it returns an
// error wrapping ErrReconnectFailed; no further attempt is scheduled.
func (r *reconnector) run(done <-chan struct{}, connect func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		wait := r.delayFor(attempt)
		r.logger.Info("scheduling reconnect attempt",
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay", wait,
		)

		timer := r.clk.Timer(wait)
		select {
		case <-done:
			timer.Stop()
			return ErrClientClosed
		case <-timer.C:
		}

		if err := connect(); err != nil {
			r.logger.Warn("reconnect attempt failed",
				"attempt", attempt,
				"error", err,
			)
			lastErr = err
			continue
		}

		r.logger.Info("reconnected", "attempt", attempt)
		return nil
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrReconnectFailed, r.maxAttempts, lastErr)
}
