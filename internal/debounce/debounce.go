// Package debounce coalesces bursts of calls (search keystrokes) into one and
// lets callers discard responses that were overtaken by a newer request.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a triggered function runs
const DefaultDelay = 300 * time.Millisecond

// Debouncer keeps at most one pending timer per channel. Triggering a channel
// again before its timer fires cancels the previous call.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*time.Timer
	stopped bool
}

// New creates a new Debouncer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, pending: make(map[string]*time.Timer)}
}

// Trigger schedules fn on channel after the delay, replacing any call still pending
func (d *Debouncer) Trigger(channel string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.pending[channel]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a newer Trigger may have replaced us between firing and locking
		if d.pending[channel] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.pending, channel)
		d.mu.Unlock()
		fn()
	})
	d.pending[channel] = timer
}

// Cancel drops the pending call on channel, if any
func (d *Debouncer) Cancel(channel string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[channel]; ok {
		t.Stop()
		delete(d.pending, channel)
	}
}

// Pending reports whether channel has a call waiting
func (d *Debouncer) Pending(channel string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[channel]
	return ok
}

// Stop cancels everything and ignores later triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for channel, t := range d.pending {
		t.Stop()
		delete(d.pending, channel)
	}
	d.stopped = true
}
