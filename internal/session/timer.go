package session

import (
	"sync"
	"time"
)

// IdleTimer fires a callback once a session has gone quiet for a fixed
// duration. Every Reset restarts the countdown. It is safe for concurrent use.
type IdleTimer struct {
	mu      sync.Mutex
	d       time.Duration
	onFire  func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewIdleTimer creates and starts a timer that calls onFire after d of
// inactivity. onFire is called in a separate goroutine.
//
// Precondition: d > 0; onFire must not be nil.
// Postcondition: Returns a running IdleTimer.
func NewIdleTimer(d time.Duration, onFire func()) *IdleTimer {
	t := &IdleTimer{d: d, onFire: onFire}
	t.mu.Lock()
	t.arm()
	t.mu.Unlock()
	return t
}

// arm starts a new countdown. Callbacks from earlier countdowns are ignored.
// Caller holds mu.
func (t *IdleTimer) arm() {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.d, func() {
		t.mu.Lock()
		live := !t.stopped && gen == t.gen
		t.mu.Unlock()
		if live {
			t.onFire()
		}
	})
}

// Reset restarts the countdown from now. It does nothing after Stop.
func (t *IdleTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer.Stop()
	t.arm()
}

// Stop cancels the countdown. Safe to call multiple times. Stop does not wait
// for a callback that is already running.
//
// Postcondition: No countdown that has not yet reached its deadline will call
// onFire, and Reset no longer re-arms the timer.
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.timer.Stop()
}
