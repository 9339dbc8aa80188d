// Package clock provides the one-shot timer scheduler the engine uses for
// its delayed incident trigger and debounced saves. The Manual scheduler
// lets tests advance a virtual clock instead of sleeping.
package clock

import "time"

// CancelFunc stops a pending timer. It returns true if the timer was
// still pending and has been cancelled.
type CancelFunc func() bool

// Scheduler schedules one-shot callbacks.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// Real schedules against the wall clock.
type Real struct{}

var _ Scheduler = Real{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
