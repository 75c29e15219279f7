package broker

// Handoff moves the instance behind lower into a new upper-layer driver built
// by build, and installs the result in upper.
//
// If upper is already occupied or build fails, the lower instance goes back
// into its cell so other consumers can still claim it. If upper is filled
// while build runs, the new upper driver is abandoned without being closed,
// since closing it could close the lower instance it wraps.
func Handoff[L, U any](lower Handle[L], upper *Cell[U], build func(L) (U, error)) (Handle[U], error) {
	v, ok := lower.Take()
	if !ok {
		return Handle[U]{}, ErrNotReady
	}

	if upper.Occupied() {
		lower.Replace(v)
		return Handle[U]{}, ErrAlreadyInitialized
	}

	h, err := install(upper, func() (U, error) { return build(v) }, false)
	if err != nil {
		lower.Replace(v)
		return Handle[U]{}, err
	}
	return h, nil
}
