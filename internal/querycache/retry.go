package querycache

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts bounds loader calls per fetch, the first included.
	DefaultMaxAttempts = 3

	defaultInitialInterval = time.Second
	defaultMaxInterval     = 30 * time.Second
)

// RetryPolicy decides whether a failed loader call is attempted again.
type RetryPolicy struct {
	MaxAttempts int
	// NewBackOff returns a fresh schedule for one fetch. Nil uses an
	// exponential schedule starting at one second and capped at 30s.
	NewBackOff func() backoff.BackOff
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts}
}

// ShouldRetry reports whether attempt (1-based) may be followed by another.
// Only errors that report themselves Temporary are retried, so not-found,
// auth and validation failures end the fetch immediately.
func (p RetryPolicy) ShouldRetry(attempt int, err error) bool {
	max := p.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	if attempt >= max || err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}

func (p RetryPolicy) backOff() backoff.BackOff {
	if p.NewBackOff != nil {
		return p.NewBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	b.MaxInterval = defaultMaxInterval
	b.MaxElapsedTime = 0
	return b
}

// run calls load until it succeeds or the policy gives up.
func (p RetryPolicy) run(ctx context.Context, load Loader, onRetry func(attempt int, err error, wait time.Duration)) (any, error) {
	attempt := 0
	op := func() (any, error) {
		attempt++
		v, err := load(ctx)
		if err == nil {
			return v, nil
		}
		if !p.ShouldRetry(attempt, err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	notify := func(err error, wait time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
	}
	return backoff.RetryNotifyWithData(op, backoff.WithContext(p.backOff(), ctx), notify)
}
