// Package retry runs calls against flaky upstreams (web pages, LLM APIs)
// with bounded attempts and jittered exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"syscall"
	"time"
)

// TransientError marks a failure that is worth retrying (429, 5xx, timeouts).
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient tags err as retryable. A zero status means no HTTP status applied.
func Transient(err error, status int) error {
	if err == nil {
		return nil
	}
	return &TransientError{StatusCode: status, Err: err}
}

// RetryableStatus reports whether an HTTP status code is worth retrying.
func RetryableStatus(code int) bool {
	return code == 429 || code >= 500
}

// IsTransient checks if an error is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// Policy controls how often and how patiently a call is retried.
type Policy struct {
	MaxAttempts int           // Total attempts including the first. 1 disables retries.
	BaseDelay   time.Duration // Delay before the first retry.
	MaxDelay    time.Duration
	// OnRetry, when set, is called before each retry sleep.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns 3 attempts starting at 1s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func (p Policy) Backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	base := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && (base <= 0 || base > p.MaxDelay) {
		base = p.MaxDelay
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}

// Do calls fn until it succeeds, returns a non-transient error, the context
// is done, or the attempts run out. The last error is returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	var zero T
	var lastErr error
	for attempt := range p.MaxAttempts {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) || attempt == p.MaxAttempts-1 {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(p.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}
