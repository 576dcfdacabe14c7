package generator

import (
	"context"
	"time"
)

// TimerDelay waits on the wall clock.
type TimerDelay struct{}

// Wait blocks for d or until ctx is done, whichever comes first.
func (TimerDelay) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
