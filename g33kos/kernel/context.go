package kernel

import (
	"trustg33k/g33kos/stack"
	"trustg33k/g33kos/timer"
)

// Context is handed to a task for one poll.
type Context struct {
	// ID is the polled task.
	ID TaskID
	// Now is the tick at which this RunReady cycle started.
	Now timer.Tick
	// Stack is the task's own guarded stack, usable as scratch memory.
	Stack *stack.Stack
}
