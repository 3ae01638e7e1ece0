package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	quiet := 500 * time.Millisecond
	d := NewDebouncer(quiet)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// N changes, each inside the quiet window of the previous one.
	var deadline time.Time
	for i := 0; i < 5; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		deadline = d.Observe(now)
	}

	lastChange := start.Add(400 * time.Millisecond)
	assert.Equal(t, lastChange.Add(quiet), deadline,
		"deadline should be time of last change plus quiet duration")

	// Nothing fires while the quiet period is still running.
	assert.False(t, d.Fire(lastChange.Add(quiet-time.Millisecond)))
	assert.True(t, d.Pending())

	// Exactly one trigger once the window elapses.
	assert.True(t, d.Fire(lastChange.Add(quiet)))
	assert.False(t, d.Pending())
	assert.False(t, d.Fire(lastChange.Add(quiet+time.Second)),
		"a second fire without a new change must not trigger")
}

func TestDebouncerNotArmedInitially(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	assert.False(t, d.Pending())
	assert.False(t, d.Fire(time.Now()))
}

func TestDebouncerRearmsAfterTrigger(t *testing.T) {
	quiet := 100 * time.Millisecond
	d := NewDebouncer(quiet)
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	d.Observe(t0)
	assert.True(t, d.Fire(t0.Add(quiet)))

	// A fresh change after a trigger arms a fresh window.
	t1 := t0.Add(time.Second)
	d.Observe(t1)
	assert.True(t, d.Pending())
	assert.False(t, d.Fire(t1.Add(quiet/2)))
	assert.True(t, d.Fire(t1.Add(quiet)))
	assert.Equal(t, t1.Add(quiet), d.LastTrigger())
}

func TestDebouncerContinuousChangesPostpone(t *testing.T) {
	quiet := 100 * time.Millisecond
	d := NewDebouncer(quiet)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		d.Observe(now)
		assert.False(t, d.Fire(now.Add(quiet/2)))
		now = now.Add(quiet / 2)
	}

	// The stream stopped; the trailing window finally elapses.
	assert.True(t, d.Fire(now.Add(quiet)))
}
