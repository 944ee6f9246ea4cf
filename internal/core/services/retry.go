package services

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

// DefaultRetryAttempts bounds retries for transient provider failures.
const DefaultRetryAttempts = 3

// DefaultRetryBaseDelay is the first backoff delay; it doubles per
// attempt.
const DefaultRetryBaseDelay = 200 * time.Millisecond

// RetryPolicy retries an operation with bounded exponential backoff.
// The zero value uses the defaults.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// BaseDelay is the wait after the first failure; doubled after
	// each subsequent failure.
	BaseDelay time.Duration
}

// Do runs op up to p.Attempts times. It stops early when op succeeds,
// the context ends, or op returns a permanent error (see Permanent).
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = DefaultRetryBaseDelay
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if ctx.Err() != nil {
			return err
		}
	}

	return err
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps an error so RetryPolicy.Do stops immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// PreExecution reports whether a provider failure is known to have
// happened before the request was executed, so a retry cannot cause a
// duplicate side effect. Only such failures justify retrying
// non-idempotent calls (LLM generation, tool invocations); ambiguous
// timeouts do not.
func PreExecution(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
