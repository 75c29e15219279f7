package kernel

import (
	"trustg33k/g33kos/stack"
	"trustg33k/g33kos/timer"
)

// TaskID identifies a spawned task. IDs are assigned in order and wrap.
type TaskID uint32

// Priority orders ready tasks within one RunReady cycle (higher runs earlier).
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Task is a cooperative unit of execution.
//
// Poll runs to completion without blocking and tells the scheduler when to
// call it again.
type Task interface {
	Name() string
	Poll(ctx *Context) Command
}

// Prioritized is implemented by tasks that want a priority other than PriorityNormal.
type Prioritized interface {
	Priority() Priority
}

// StackSizer is implemented by tasks that need a stack other than stack.DefaultSize.
type StackSizer interface {
	StackSize() int
}

func taskPriority(t Task) Priority {
	if p, ok := t.(Prioritized); ok {
		return p.Priority()
	}
	return PriorityNormal
}

func taskStackSize(t Task) int {
	if s, ok := t.(StackSizer); ok && s.StackSize() > 0 {
		return s.StackSize()
	}
	return stack.DefaultSize
}

type commandKind uint8

const (
	cmdContinue commandKind = iota
	cmdSleepTicks
	cmdSleepMs
	cmdFinished
)

// Command is the result of one poll.
type Command struct {
	kind commandKind
	n    uint32
}

// Continue makes the task eligible again on the next cycle.
func Continue() Command { return Command{kind: cmdContinue} }

// SleepTicks delays the task by n ticks (at least one).
func SleepTicks(n uint32) Command { return Command{kind: cmdSleepTicks, n: n} }

// SleepMs delays the task by ms milliseconds (at least one tick).
func SleepMs(ms uint32) Command { return Command{kind: cmdSleepMs, n: ms} }

// Finished ends the task. It is never polled again.
func Finished() Command { return Command{kind: cmdFinished} }

// IsFinished reports whether c is Finished().
func (c Command) IsFinished() bool { return c.kind == cmdFinished }

// delay returns the number of ticks until the next poll.
func (c Command) delay() uint32 {
	var d uint32
	switch c.kind {
	case cmdSleepTicks:
		d = c.n
	case cmdSleepMs:
		d = timer.MsToTicks(c.n)
	default:
		return 0
	}
	if d < 1 {
		d = 1
	}
	return d
}

func (c Command) String() string {
	switch c.kind {
	case cmdContinue:
		return "continue"
	case cmdSleepTicks:
		return "sleep-ticks"
	case cmdSleepMs:
		return "sleep-ms"
	case cmdFinished:
		return "finished"
	default:
		return "unknown"
	}
}
