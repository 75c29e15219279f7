package app

import (
	"fmt"

	"trustg33k/g33kos/kernel"
	"trustg33k/g33kos/oled"
)

// fault reports a task stopped by a tripped stack guard on the console and
// the OLED. The scheduler has already logged the guard line; the rest of the
// system keeps running.
func (s *system) fault(f kernel.Fault) {
	s.logf("Task fault: %s (#%d) %s at tick %d", f.Name, f.TaskID, f.Phase, f.Tick)
	s.show(func(d *oled.Display) error {
		return d.ShowLines([]string{
			"TASK FAULT",
			fmt.Sprintf("task: %s #%d", f.Name, f.TaskID),
			"stack guard " + f.Phase.String(),
			fmt.Sprintf("tick: %d", f.Tick),
		})
	})
}
