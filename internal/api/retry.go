package api

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInitialDelay is the first wait after a rate-limited request; later
// waits double up to eight times this value.
const DefaultInitialDelay = 1 * time.Second

// WithRetry executes fn, retrying up to maxRetries times while GitHub reports
// a rate limit. Any other error is returned immediately.
func WithRetry(fn func() error, maxRetries int) error {
	return WithRetryDelay(fn, maxRetries, DefaultInitialDelay, os.Stderr)
}

// WithRetryDelay is WithRetry with an explicit first delay and warning
// writer. A Retry-After hint from GitHub takes precedence over the computed
// delay.
func WithRetryDelay(fn func() error, maxRetries int, initial time.Duration, warn io.Writer) error {
	hinted := &retryAfterBackOff{next: rateLimitBackOff(initial)}

	op := func() error {
		err := fn()
		if err != nil && !IsRateLimited(err) {
			return backoff.Permanent(err)
		}
		hinted.hint = GetRetryAfter(err)
		return err
	}
	notify := func(err error, delay time.Duration) {
		fmt.Fprintf(warn, "Warning: rate limited, retrying in %v...\n", delay)
	}

	return backoff.RetryNotify(op, backoff.WithMaxRetries(hinted, uint64(max(maxRetries, 0))), notify)
}

func rateLimitBackOff(initial time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 8 * initial
	bo.MaxElapsedTime = 0
	return bo
}

// retryAfterBackOff prefers the Retry-After hint of the last failure
type retryAfterBackOff struct {
	next backoff.BackOff
	hint time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	delay := b.next.NextBackOff()
	if b.hint > 0 && delay != backoff.Stop {
		return b.hint
	}
	return delay
}

func (b *retryAfterBackOff) Reset() {
	b.hint = 0
	b.next.Reset()
}
