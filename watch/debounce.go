package watch

import "time"

// Debouncer collapses a burst of qualifying changes into a single trigger.
//
// This is a trailing debounce: the first change after a trigger (or after
// session start) arms the window, every further change pushes the deadline
// out, and the trigger fires only once the configured quiet duration has
// elapsed with no further changes. A burst of edits reruns the command once,
// and only an uninterrupted stream of changes can postpone it indefinitely.
//
// The Debouncer is pure state over caller-supplied clock readings, so the
// session can drive it with a timer and tests can drive it with a fake
// clock. It is owned by the single watch loop task.
type Debouncer struct {
	quiet    time.Duration
	deadline time.Time
	pending  bool

	lastTrigger time.Time
}

// NewDebouncer creates a Debouncer with the given quiet duration.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Quiet returns the configured quiet duration.
func (d *Debouncer) Quiet() time.Duration {
	return d.quiet
}

// Observe records a qualifying change at now and returns the new deadline.
// The first observation arms the window; later ones extend it.
func (d *Debouncer) Observe(now time.Time) time.Time {
	d.pending = true
	d.deadline = now.Add(d.quiet)
	return d.deadline
}

// Pending reports whether a trigger is armed but not yet emitted.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Deadline returns the current quiet-window deadline. Meaningful only while
// Pending is true.
func (d *Debouncer) Deadline() time.Time {
	return d.deadline
}

// Fire reports whether the trigger should be emitted at now: a change is
// pending and the quiet period has fully elapsed since the last one. On
// emission the window resets for the next burst.
func (d *Debouncer) Fire(now time.Time) bool {
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	d.lastTrigger = now
	return true
}

// LastTrigger returns when the most recent trigger was emitted, zero if
// none has been.
func (d *Debouncer) LastTrigger() time.Time {
	return d.lastTrigger
}
