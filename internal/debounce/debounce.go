// Package debounce provides a timer handle that holds at most one
// pending call. Each debounced input owns its own Timer.
package debounce

import (
	"sync"
	"time"
)

const (
	SearchDelay = 300 * time.Millisecond
	PriceDelay  = 500 * time.Millisecond
	// TypeDelay only needs to cover a quick off-and-on of one chip.
	TypeDelay = 150 * time.Millisecond
)

type Timer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	seq     uint64
}

func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Reset schedules fn after the delay, replacing whatever call was
// pending on this timer. Other timers are unaffected.
func (t *Timer) Reset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.pending = fn
	t.timer = time.AfterFunc(t.delay, func() { t.fire(seq) })
}

func (t *Timer) fire(seq uint64) {
	t.mu.Lock()
	// A Reset or Stop that raced with this firing wins.
	if seq != t.seq || t.pending == nil {
		t.mu.Unlock()
		return
	}
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	fn()
}

// Stop drops the pending call, if any, and reports whether there was one.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	had := t.pending != nil
	t.pending = nil
	return had
}

// Flush runs the pending call now instead of waiting for the delay.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	fn := t.pending
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	t.pending = nil
	t.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}
