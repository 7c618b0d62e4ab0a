// Package retry provides bounded retry policies for external calls.
package retry

import (
	"context"
	"strings"
	"time"
)

// Backoff computes the delay before attempt n (1-based, i.e. the delay
// after the n-th failure).
type Backoff func(attempt int) time.Duration

// Fixed returns the same delay between every attempt.
func Fixed(delay time.Duration) Backoff {
	return func(int) time.Duration { return delay }
}

// Linear grows the delay by step each attempt: step, 2*step, 3*step, ...
func Linear(step time.Duration) Backoff {
	return func(attempt int) time.Duration { return time.Duration(attempt) * step }
}

// Exponential doubles the delay each attempt, capped at max.
func Exponential(initial, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		delay := initial
		for i := 1; i < attempt; i++ {
			delay *= 2
			if delay >= max {
				return max
			}
		}
		if delay > max {
			return max
		}
		return delay
	}
}

// Policy is an explicit bounded-retry policy: a small attempt ceiling and a
// backoff function, parameterized per call site.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int
	// Backoff computes the delay between attempts. Nil means no delay.
	Backoff Backoff
	// RetryableOnly limits retries to errors classified as transient.
	RetryableOnly bool
}

// RetryableError is implemented by errors that explicitly declare their
// retryability, e.g. llm.Error.
type RetryableError interface {
	error
	IsRetryable() bool
}

// Do executes fn until it succeeds, the attempt ceiling is reached, or the
// context is canceled. Returns the last error on exhaustion.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	_, err := DoWithResult(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn under the policy, returning the last result and
// error. Waits between attempts respect context cancellation.
func DoWithResult[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var result T
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		r, err := fn()
		if err == nil {
			return r, nil
		}
		result = r
		lastErr = err

		if p.RetryableOnly && !IsRetryable(err) {
			return result, err
		}

		if attempt < attempts && p.Backoff != nil {
			select {
			case <-time.After(p.Backoff(attempt)):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}
	}

	return result, lastErr
}

// IsRetryable determines if an error is transient and worth retrying.
// Errors implementing RetryableError declare it themselves; anything else is
// pattern-matched against known transient error strings.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if r, ok := err.(RetryableError); ok {
		return r.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"timeout",
		"timed out",
		"temporary failure",
		"too many connections",
		"i/o timeout",
		"network is unreachable",
		"429",
		"500",
		"502",
		"503",
		"504",
		"rate limit",
		"service unavailable",
		"too many requests",
		"overloaded",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
