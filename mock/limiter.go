package mock

import (
	"context"

	"github.com/fwojciec/lawdoc"
)

var _ lawdoc.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of lawdoc.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
