// Package critical provides the one mutual-exclusion primitive shared by the
// timer interrupt handler and the mainline.
//
// Sections are short (pointer-swap granularity) and must never nest.
package critical

// With runs fn inside a critical section.
func With(fn func()) {
	s := Enter()
	defer Exit(s)
	fn()
}
