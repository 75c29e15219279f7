package broker

import "trustg33k/g33kos/critical"

// Handle is a non-owning reference to a Cell. The zero Handle refers to nothing.
//
// Handles carry no lock and may be copied freely between tasks. Any
// operation may find the cell empty if another holder took the instance.
type Handle[T any] struct {
	cell *Cell[T]
}

// Valid reports whether h refers to a cell.
func (h Handle[T]) Valid() bool { return h.cell != nil }

// Name returns the name of the referenced cell.
func (h Handle[T]) Name() string {
	if h.cell == nil {
		return ""
	}
	return h.cell.name
}

// Ready reports whether the instance is currently present.
func (h Handle[T]) Ready() bool {
	if h.cell == nil {
		return false
	}
	return h.cell.Occupied()
}

// Take removes the instance, leaving the cell empty.
func (h Handle[T]) Take() (T, bool) {
	var zero T
	if h.cell == nil {
		return zero, false
	}
	var v T
	var ok bool
	critical.With(func() { v, ok = h.cell.take() })
	return v, ok
}

// Replace installs v and returns the previous instance, if there was one.
func (h Handle[T]) Replace(v T) (T, bool) {
	var zero T
	if h.cell == nil {
		return zero, false
	}
	var old T
	var had bool
	critical.With(func() { old, had = h.cell.swap(v) })
	return old, had
}

// With runs fn against the instance if present. See TryWith.
func (h Handle[T]) With(fn func(v *T)) bool {
	_, ok := TryWith(h, func(v *T) struct{} {
		fn(v)
		return struct{}{}
	})
	return ok
}

// TryWith runs fn against the instance and returns its result, or false if
// the cell is empty. An empty cell means "unavailable right now", not an error.
//
// The instance is borrowed: it leaves the cell for the duration of fn so the
// critical section never spans a call into the driver. If the cell was
// refilled while fn ran, the borrowed instance is dropped.
func TryWith[T, R any](h Handle[T], fn func(v *T) R) (R, bool) {
	var zero R
	v, ok := h.Take()
	if !ok {
		return zero, false
	}

	defer func() {
		var refilled bool
		critical.With(func() {
			if h.cell.present {
				refilled = true
				return
			}
			h.cell.value = v
			h.cell.present = true
		})
		if refilled {
			drop(v)
		}
	}()

	return fn(&v), true
}
