// Package broker is the hardware resource broker.
//
// Every peripheral lives in exactly one Cell. Drivers hand out Handles:
// cheap copyable references to the cell; whoever holds a handle can borrow,
// take or return the instance. Every check-then-act on a cell happens inside
// one critical section, so a cell never holds two instances.
package broker

import (
	"io"

	"trustg33k/g33kos/critical"
)

// Cell is a singleton slot for one resource.
type Cell[T any] struct {
	name    string
	present bool
	value   T
}

// NewCell returns an empty cell. name is used in diagnostics.
func NewCell[T any](name string) *Cell[T] {
	return &Cell[T]{name: name}
}

// Name returns the cell name.
func (c *Cell[T]) Name() string { return c.name }

// Occupied reports whether the cell holds an instance.
func (c *Cell[T]) Occupied() bool {
	var ok bool
	critical.With(func() { ok = c.present })
	return ok
}

func (c *Cell[T]) take() (T, bool) {
	var zero T
	if !c.present {
		return zero, false
	}
	v := c.value
	c.value = zero
	c.present = false
	return v, true
}

func (c *Cell[T]) swap(v T) (T, bool) {
	old, had := c.take()
	c.value = v
	c.present = true
	return old, had
}

// Install constructs an instance with build and puts it into c.
//
// If c is occupied, build is not called and ErrAlreadyInitialized is
// returned; the existing instance is untouched. Build runs outside the
// critical section, so the emptiness check is repeated before installing.
// An instance that loses that race is dropped.
func Install[T any](c *Cell[T], build func() (T, error)) (Handle[T], error) {
	return install(c, build, true)
}

// install is Install with control over the raced instance. Handoff passes
// dropRaced=false because the built instance wraps the lower resource,
// which goes back into its own cell instead.
func install[T any](c *Cell[T], build func() (T, error), dropRaced bool) (Handle[T], error) {
	if c.Occupied() {
		return Handle[T]{}, ErrAlreadyInitialized
	}

	v, err := build()
	if err != nil {
		return Handle[T]{}, initFailed(c.name, err)
	}

	var raced bool
	critical.With(func() {
		if c.present {
			raced = true
			return
		}
		c.value = v
		c.present = true
	})
	if raced {
		if dropRaced {
			drop(v)
		}
		return Handle[T]{}, ErrAlreadyInitialized
	}
	return Handle[T]{cell: c}, nil
}

// HandleFor returns a handle to c whether or not it is occupied.
func HandleFor[T any](c *Cell[T]) Handle[T] {
	return Handle[T]{cell: c}
}

// drop disposes of an instance that can no longer go into its cell.
func drop(v any) {
	if cl, ok := v.(io.Closer); ok {
		_ = cl.Close()
	}
}
