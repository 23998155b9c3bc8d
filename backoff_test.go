package lawdoc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_Delay(t *testing.T) {
	t.Parallel()

	t.Run("doubles from base and caps", func(t *testing.T) {
		t.Parallel()

		b := lawdoc.Backoff{Base: time.Second, Max: 30 * time.Second}

		assert.Equal(t, 2*time.Second, b.Delay(1))
		assert.Equal(t, 4*time.Second, b.Delay(2))
		assert.Equal(t, 16*time.Second, b.Delay(4))
		assert.Equal(t, 30*time.Second, b.Delay(5))
		assert.Equal(t, 30*time.Second, b.Delay(60))
	})

	t.Run("zero base disables waiting", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, lawdoc.Backoff{}.Delay(3))
	})

	t.Run("jittered delays never decrease and stay under the cap", func(t *testing.T) {
		t.Parallel()

		flip := false
		b := lawdoc.Backoff{
			Base:   time.Second,
			Max:    10 * time.Second,
			Jitter: time.Second,
			Rand: func() float64 {
				flip = !flip
				if flip {
					return 0.999
				}
				return 0
			},
		}

		prev := time.Duration(0)
		for retry := 1; retry <= 12; retry++ {
			d := b.Delay(retry)
			assert.GreaterOrEqual(t, d, prev, "retry %d", retry)
			assert.LessOrEqual(t, d, 10*time.Second, "retry %d", retry)
			prev = d
		}
	})

	t.Run("jitter is clamped to base", func(t *testing.T) {
		t.Parallel()

		b := lawdoc.Backoff{Base: 100 * time.Millisecond, Jitter: time.Hour, Rand: func() float64 { return 0.5 }}

		assert.Equal(t, 250*time.Millisecond, b.Delay(1))
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("retries transient errors until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retries []int
		err := lawdoc.Retry(context.Background(), lawdoc.Backoff{}, 5, func(context.Context) error {
			calls++
			if calls < 3 {
				return lawdoc.Errorf(lawdoc.EUNAVAILABLE, "rate limited")
			}
			return nil
		}, func(retry int, _ error, _ time.Duration) {
			retries = append(retries, retry)
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, retries)
	})

	t.Run("returns permanent errors immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := lawdoc.Retry(context.Background(), lawdoc.Backoff{}, 5, func(context.Context) error {
			calls++
			return lawdoc.Errorf(lawdoc.EINVALID, "bad input")
		}, nil)

		assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("reports exhaustion as unavailable", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := lawdoc.Retry(context.Background(), lawdoc.Backoff{}, 2, func(context.Context) error {
			calls++
			return errors.New("connection refused")
		}, nil)

		assert.Equal(t, lawdoc.EUNAVAILABLE, lawdoc.ErrorCode(err))
		assert.Contains(t, lawdoc.ErrorMessage(err), "connection refused")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := lawdoc.Retry(ctx, lawdoc.Backoff{Base: time.Hour}, 5, func(context.Context) error {
			return errors.New("timeout")
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
