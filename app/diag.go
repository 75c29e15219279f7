package app

import (
	"fmt"

	"trustg33k/g33kos/kernel"
)

// diagnostics renders the scheduler, heap and resource state for the UI.
func (s *system) diagnostics() []string {
	lines := []string{
		fmt.Sprintf("tick %d", s.clock.Ticks()),
		fmt.Sprintf("tasks %d/%d", s.sched.TaskCount(), kernel.MaxTasks),
	}
	for _, t := range s.sched.Tasks() {
		state := "ok"
		switch {
		case t.Finished:
			state = "done"
		case !t.StackOK:
			state = "guard!"
		}
		lines = append(lines, fmt.Sprintf(" %s %s %s", t.Name, t.Priority, state))
	}

	st := s.heap.Stats()
	lines = append(lines,
		fmt.Sprintf("heap %d/%d", st.Used, st.Size),
		fmt.Sprintf("free blk %d", st.LargestFree),
	)
	for _, slot := range s.board.Registry.Slots() {
		state := "-"
		if slot.Occupied {
			state = "up"
		}
		lines = append(lines, fmt.Sprintf(" %s %s", slot.Name, state))
	}
	return lines
}
