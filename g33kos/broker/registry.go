package broker

// Slot is the read-only view of a cell kept by a Registry.
type Slot interface {
	Name() string
	Occupied() bool
}

// SlotState is a snapshot of one slot.
type SlotState struct {
	Name     string
	Occupied bool
}

// Registry lists the resource cells of a board for diagnostics.
type Registry struct {
	slots []Slot
}

// Register adds cells to the registry.
func (r *Registry) Register(slots ...Slot) {
	r.slots = append(r.slots, slots...)
}

// Slots returns the current state of every registered cell.
func (r *Registry) Slots() []SlotState {
	out := make([]SlotState, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, SlotState{Name: s.Name(), Occupied: s.Occupied()})
	}
	return out
}
