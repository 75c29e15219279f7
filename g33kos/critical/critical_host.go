//go:build !baremetal

package critical

import "sync"

// State is the token returned by Enter and handed back to Exit.
type State struct{}

var mu sync.Mutex

// Enter starts a critical section.
//
// On host builds the "interrupt" is a goroutine, so exclusion is a process-wide mutex.
func Enter() State {
	mu.Lock()
	return State{}
}

// Exit ends the critical section started by Enter.
func Exit(State) {
	mu.Unlock()
}
