// Package debounce provides trailing-edge debouncing for rapid input events
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs a function once the input has been quiet for a fixed delay.
// Each Trigger cancels the pending call and reschedules; there is no leading
// invocation.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	gen      uint64
	stopped  bool
}

// New creates a debouncer with the specified quiet period
func New(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
// A timer that already fired but lost the race with a newer Trigger does not
// run its function.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.duration, func() {
		if d.claim(gen) {
			fn()
		}
	})
}

// claim reports whether gen is still the latest trigger and marks it consumed
func (d *Debouncer) claim(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || gen != d.gen {
		return false
	}
	d.timer = nil
	return true
}

// Delay returns the quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.duration
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel cancels any pending call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels any pending call and ignores every later Trigger
func (d *Debouncer) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

// Gate is the generation-counter form of a debouncer, for event loops that
// schedule their own delayed messages (for example bubbletea's tea.Tick).
// Each change takes a new generation; a delayed message acts only if its
// generation is still current when it arrives. Gate is not safe for
// concurrent use.
type Gate struct {
	gen uint64
}

// Next starts a new quiet period and returns its generation
func (g *Gate) Next() uint64 {
	g.gen++
	return g.gen
}

// Current reports whether gen belongs to the latest change
func (g *Gate) Current(gen uint64) bool {
	return gen == g.gen
}
