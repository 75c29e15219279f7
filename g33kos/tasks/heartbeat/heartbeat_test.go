package heartbeat

import (
	"testing"

	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/kernel"
	"trustg33k/g33kos/stack"
	"trustg33k/g33kos/timer"
	"trustg33k/hal"
)

type recLED struct{ levels []bool }

func (l *recLED) High() { l.levels = append(l.levels, true) }
func (l *recLED) Low()  { l.levels = append(l.levels, false) }

func TestHeartbeatBlinks(t *testing.T) {
	led := &recLED{}
	cell := broker.NewCell[hal.LED]("LED")
	h, err := broker.Install(cell, func() (hal.LED, error) { return led, nil })
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	var now timer.Tick
	s := kernel.New(kernel.ClockFunc(func() timer.Tick { return now }), stack.NewHeap(stack.DefaultHeapSize))
	task := New(h, 0, 512)
	if _, err := s.Spawn(task); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	for now = 0; now <= 1500; now += 50 {
		s.RunReady()
	}

	want := []bool{true, false, true, false}
	if len(led.levels) != len(want) {
		t.Fatalf("levels = %v, want %v", led.levels, want)
	}
	for i := range want {
		if led.levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", led.levels, want)
		}
	}
	if got := task.StackSize(); got != 512 {
		t.Fatalf("StackSize() = %d, want 512", got)
	}
}

func TestHeartbeatWithoutLED(t *testing.T) {
	task := New(broker.Handle[hal.LED]{}, 250, 0)
	cmd := task.Poll(&kernel.Context{})
	if cmd != kernel.SleepMs(250) {
		t.Fatalf("Poll() = %v, want %v", cmd, kernel.SleepMs(250))
	}
	if !task.On() || task.Toggles() != 1 {
		t.Fatalf("On() = %v, Toggles() = %d, want true, 1", task.On(), task.Toggles())
	}
}
