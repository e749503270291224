// Package debounce provides a trailing-edge, per-key debouncer for the
// suggestion endpoint: rapid keystrokes collapse into one registry query.
package debounce

import (
	"context"
	"sync"
	"time"
)

type waiter struct {
	timer      *time.Timer
	fired      chan struct{}
	superseded chan struct{}
}

// Debouncer delays work per key and drops a pending call when a newer one
// arrives for the same key.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	waiters map[string]*waiter
}

// New creates a Debouncer with the given trailing delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		waiters: make(map[string]*waiter),
	}
}

// Do blocks for the trailing delay and then runs fn, returning true. It
// returns false without running fn when a newer Do call for the same key
// supersedes this one, or when ctx is cancelled first.
func (d *Debouncer) Do(ctx context.Context, key string, fn func()) bool {
	d.mu.Lock()
	if prev := d.waiters[key]; prev != nil {
		prev.timer.Stop()
		close(prev.superseded)
	}

	w := &waiter{
		fired:      make(chan struct{}),
		superseded: make(chan struct{}),
	}
	w.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.waiters[key] == w
		if current {
			delete(d.waiters, key)
		}
		d.mu.Unlock()
		// A superseded waiter is signalled by its replacement.
		if current {
			close(w.fired)
		}
	})
	d.waiters[key] = w
	d.mu.Unlock()

	select {
	case <-w.fired:
		fn()
		return true
	case <-w.superseded:
		return false
	case <-ctx.Done():
		d.mu.Lock()
		if d.waiters[key] == w {
			w.timer.Stop()
			delete(d.waiters, key)
		}
		d.mu.Unlock()
		return false
	}
}
