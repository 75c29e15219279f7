// Package heartbeat blinks the status LED so a hung scheduler is visible.
package heartbeat

import (
	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/kernel"
	"trustg33k/hal"
)

const DefaultPeriodMs = 500

type Task struct {
	led      broker.Handle[hal.LED]
	periodMs uint32
	stack    int
	on       bool
	toggles  uint32
}

// New returns a task that toggles led every periodMs. A zero period uses
// DefaultPeriodMs; a zero stack uses the scheduler default.
func New(led broker.Handle[hal.LED], periodMs uint32, stack int) *Task {
	if periodMs == 0 {
		periodMs = DefaultPeriodMs
	}
	return &Task{led: led, periodMs: periodMs, stack: stack}
}

func (t *Task) Name() string    { return "led" }
func (t *Task) StackSize() int  { return t.stack }
func (t *Task) On() bool        { return t.on }
func (t *Task) Toggles() uint32 { return t.toggles }

func (t *Task) Poll(*kernel.Context) kernel.Command {
	t.on = !t.on
	t.toggles++
	// A missing or borrowed LED just skips this blink.
	t.led.With(func(l *hal.LED) {
		if t.on {
			(*l).High()
		} else {
			(*l).Low()
		}
	})
	return kernel.SleepMs(t.periodMs)
}
