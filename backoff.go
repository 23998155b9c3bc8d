package lawdoc

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff computes exponential retry delays: Base·2^retry plus up to Jitter
// of random noise, capped at Max. Jitter is clamped to Base so delays never
// decrease from one retry to the next.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter time.Duration

	// Rand returns a number in [0,1). Defaults to math/rand.
	Rand func() float64
}

// Delay returns the wait before the given retry (1 for the first retry).
func (b Backoff) Delay(retry int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	d := b.Base
	for i := 0; i < retry; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if j := min(b.Jitter, b.Base); j > 0 {
		r := b.Rand
		if r == nil {
			r = rand.Float64
		}
		d += time.Duration(r() * float64(j))
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// RetryFunc is notified before each retry with the failed attempt's error
// and the delay about to be slept.
type RetryFunc func(retry int, err error, delay time.Duration)

// Retry calls fn until it succeeds, returns a non-retryable error, or
// maxRetries retries have been spent. Exhaustion is reported as
// EUNAVAILABLE.
func Retry(ctx context.Context, b Backoff, maxRetries int, fn func(ctx context.Context) error, notify RetryFunc) error {
	var err error
	for retry := 0; ; retry++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if retry >= maxRetries {
			break
		}
		delay := b.Delay(retry + 1)
		if notify != nil {
			notify(retry+1, err, delay)
		}
		if err := Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return Errorf(EUNAVAILABLE, "giving up after %d attempts: %v", maxRetries+1, err)
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
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
