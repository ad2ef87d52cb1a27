// Package scheduler runs delayed callbacks. Production code uses a cron-backed
// scheduler on the wall clock; tests use Fake, a virtual clock.
package scheduler

import (
	"context"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// CancelFunc cancels a scheduled callback. Calling it after the callback has
// fired, or more than once, does nothing.
type CancelFunc func()

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	Clock
	ScheduleAfter(d time.Duration, fn func()) CancelFunc
}

// Sleep waits for d on s, returning early with the context error when ctx is done.
func Sleep(ctx context.Context, s Scheduler, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	done := make(chan struct{})
	cancel := s.ScheduleAfter(d, func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}
