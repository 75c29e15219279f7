//go:build tinygo && baremetal && scheduler.cores

package critical

import (
	"runtime/interrupt"
	"sync/atomic"
)

// With goroutines on both cores, masking interrupts only stops the local
// core. The spinlock excludes the other one.
var lock atomic.Uint32

// State holds the interrupt mask saved by Enter.
type State struct {
	mask interrupt.State
}

// Enter masks local interrupts, then takes the cross-core lock.
func Enter() State {
	s := State{mask: interrupt.Disable()}
	for !lock.CompareAndSwap(0, 1) {
	}
	return s
}

// Exit releases the lock and restores the interrupt mask saved by Enter.
func Exit(s State) {
	lock.Store(0)
	interrupt.Restore(s.mask)
}
