//go:build tinygo && baremetal && !scheduler.cores

package critical

import "runtime/interrupt"

// State holds the interrupt mask saved by Enter.
type State struct {
	mask interrupt.State
}

// Enter masks interrupts and returns the previous mask.
func Enter() State {
	return State{mask: interrupt.Disable()}
}

// Exit restores the interrupt mask saved by Enter.
func Exit(s State) {
	interrupt.Restore(s.mask)
}
