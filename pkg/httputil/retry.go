package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy describes how [Policy.Do] retries. The delay before the next
// attempt doubles after each failure, up to MaxDelay when it is set.
type Policy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration

	// OnRetry, when set, is called before each wait with the 1-based number
	// of the attempt that failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy is used by [RetryWithBackoff]: 3 attempts, starting at one
// second and never waiting more than 8.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// Do runs fn until it succeeds, fails with an error not marked
// [Retryable], or the attempts run out. It returns the last error, or
// ctx.Err() if ctx ends while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var lastErr error
	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		if p.MaxDelay > 0 {
			delay = min(delay, p.MaxDelay)
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, lastErr, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}

// Retry runs fn with a [Policy] of the given attempts and initial delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn with [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy.Do(ctx, fn)
}
