//go:build !baremetal

package hal

import (
	"errors"
	"sync"
	"time"
)

// hostTimer stands in for a hardware timer. It never runs on its own: the
// host loop calls step (wall clock) or advance (simulated time), and the
// elapsed periods are delivered as interrupts.
type hostTimer struct {
	mu        sync.Mutex
	period    time.Duration
	listening bool
	pending   bool
	isr       func()
	acks      uint64

	last time.Time
	acc  time.Duration
}

func (t *hostTimer) Start(period time.Duration) error {
	if period <= 0 {
		return errors.New("timer: period must be positive")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = period
	t.acc = 0
	t.last = time.Time{}
	return nil
}

func (t *hostTimer) Listen() {
	t.mu.Lock()
	t.listening = true
	t.mu.Unlock()
}

func (t *hostTimer) ClearInterrupt() {
	t.mu.Lock()
	t.pending = false
	t.acks++
	t.mu.Unlock()
}

func (t *hostTimer) Bind(isr func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.period <= 0 {
		return ErrNoTimer
	}
	t.isr = isr
	return nil
}

// step advances by the wall time elapsed since the previous call.
func (t *hostTimer) step() {
	now := time.Now()
	t.mu.Lock()
	if t.last.IsZero() {
		t.last = now
		t.mu.Unlock()
		return
	}
	d := now.Sub(t.last)
	t.last = now
	t.mu.Unlock()
	t.advance(d)
}

// advance accumulates d and raises one interrupt per whole period.
func (t *hostTimer) advance(d time.Duration) {
	t.mu.Lock()
	if t.period <= 0 || d <= 0 {
		t.mu.Unlock()
		return
	}
	t.acc += d
	n := int(t.acc / t.period)
	t.acc %= t.period
	t.mu.Unlock()

	for i := 0; i < n; i++ {
		t.fire()
	}
}

func (t *hostTimer) fire() {
	t.mu.Lock()
	isr := t.isr
	if isr == nil || !t.listening {
		t.mu.Unlock()
		return
	}
	t.pending = true
	t.mu.Unlock()

	isr()
}

func (t *hostTimer) acknowledged() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acks
}
