// Package kernel is the cooperative scheduler.
//
// Tasks are polled from the mainline by RunReady. Nothing is preempted: a
// task gives the CPU back by returning from Poll with a Command that says
// when it wants to run again.
package kernel

import (
	"errors"
	"fmt"
	"slices"

	"trustg33k/g33kos/stack"
	"trustg33k/g33kos/timer"
)

// MaxTasks is the size of the slot table.
const MaxTasks = 8

var (
	ErrNoCapacity  = errors.New("scheduler: no task capacity")
	ErrOutOfMemory = errors.New("scheduler: out of memory")
)

// Clock supplies the current tick.
type Clock interface {
	Ticks() timer.Tick
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() timer.Tick

func (f ClockFunc) Ticks() timer.Tick { return f() }

// Logger writes diagnostic lines.
type Logger interface {
	WriteLineString(s string)
}

type slot struct {
	id       TaskID
	task     Task
	name     string
	priority Priority
	wake     timer.Tick
	finished bool
	stack    *stack.Stack
}

// Scheduler polls up to MaxTasks tasks cooperatively.
//
// It must only be used from the mainline.
type Scheduler struct {
	clock Clock
	heap  *stack.Heap
	log   Logger
	fault FaultHandler

	tasks  []slot
	nextID TaskID
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sends diagnostics to l.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithFaultHandler installs fn to receive stack guard faults.
func WithFaultHandler(fn FaultHandler) Option {
	return func(s *Scheduler) { s.fault = fn }
}

// New returns an empty scheduler that reads time from clock and carves task stacks out of heap.
func New(clock Clock, heap *stack.Heap, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  clock,
		heap:   heap,
		tasks:  make([]slot, 0, MaxTasks),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn registers t and makes it ready at the current tick.
//
// On failure the scheduler is unchanged and the caller decides whether the
// system can run without t.
func (s *Scheduler) Spawn(t Task) (TaskID, error) {
	if t == nil {
		return 0, errors.New("scheduler: nil task")
	}
	if len(s.tasks) >= MaxTasks {
		return 0, ErrNoCapacity
	}

	stk, err := s.heap.Allocate(taskStackSize(t))
	if err != nil {
		return 0, fmt.Errorf("%w: stack for task %s: %w", ErrOutOfMemory, t.Name(), err)
	}

	id := s.nextID
	s.nextID++
	s.tasks = append(s.tasks, slot{
		id:       id,
		task:     t,
		name:     t.Name(),
		priority: taskPriority(t),
		wake:     s.clock.Ticks(),
		stack:    stk,
	})
	return id, nil
}

// RunReady polls every task that is due at the current tick, once.
func (s *Scheduler) RunReady() {
	now := s.clock.Ticks()

	// Fresh best-effort order each cycle; equal priorities are not kept FIFO.
	slices.SortFunc(s.tasks, func(a, b slot) int {
		if a.priority != b.priority {
			return int(b.priority) - int(a.priority)
		}
		return tickCompare(a.wake, b.wake)
	})

	for i := range s.tasks {
		sl := &s.tasks[i]
		if sl.finished {
			continue
		}

		if !sl.stack.Verify() {
			s.logf("Stack guard tripped for task %s", sl.name)
			s.trip(sl, FaultBeforePoll, now)
			continue
		}

		if tickBefore(now, sl.wake) {
			continue
		}

		ctx := Context{ID: sl.id, Now: now, Stack: sl.stack}
		cmd := sl.task.Poll(&ctx)
		if cmd.IsFinished() {
			sl.finished = true
		} else {
			sl.wake = now + cmd.delay()
		}

		if !sl.stack.Verify() {
			s.logf("Stack guard tripped after polling task %s", sl.name)
			s.trip(sl, FaultAfterPoll, now)
		}
	}
}

// Reap drops finished tasks and releases their stacks.
func (s *Scheduler) Reap() int {
	n := 0
	s.tasks = slices.DeleteFunc(s.tasks, func(sl slot) bool {
		if !sl.finished {
			return false
		}
		if err := sl.stack.Release(); err != nil {
			s.logf("Stack release failed for task %s: %v", sl.name, err)
		}
		n++
		return true
	})
	return n
}

// TaskCount returns the number of slots in use, finished tasks included.
func (s *Scheduler) TaskCount() int {
	return len(s.tasks)
}

// TaskInfo is a diagnostic snapshot of one slot.
type TaskInfo struct {
	ID        TaskID
	Name      string
	Priority  Priority
	Wake      timer.Tick
	Finished  bool
	StackSize int
	StackOK   bool
}

// Tasks returns a snapshot of all slots in their current order.
func (s *Scheduler) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, len(s.tasks))
	for _, sl := range s.tasks {
		out = append(out, TaskInfo{
			ID:        sl.id,
			Name:      sl.name,
			Priority:  sl.priority,
			Wake:      sl.wake,
			Finished:  sl.finished,
			StackSize: sl.stack.Len(),
			StackOK:   sl.stack.Verify(),
		})
	}
	return out
}

func (s *Scheduler) trip(sl *slot, phase FaultPhase, now timer.Tick) {
	sl.finished = true
	if s.fault != nil {
		s.fault(Fault{TaskID: sl.id, Name: sl.name, Phase: phase, Tick: now})
	}
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

// tickBefore reports whether a is earlier than b, across wraparound.
func tickBefore(a, b timer.Tick) bool {
	return int32(a-b) < 0
}

func tickCompare(a, b timer.Tick) int {
	switch d := int32(a - b); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
