// Package schedule provides the time source and deferred-work primitives the
// lexical cache runs on.
//
// A [Scheduler] supplies the current time and one-shot timers. [Loop] is the
// production implementation: it runs every callback on a single goroutine so
// work posted by timers never overlaps. [Virtual] is a deterministic clock
// for tests; time only moves when the test advances it.
package schedule

import "time"

// Scheduler supplies time and deferred execution.
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc arranges for f to run once after d.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means the callback already ran or the timer
	// was already stopped.
	Stop() bool
}

// Timer states.
const (
	timerPending = iota
	timerFired
	timerStopped
)
