// Package timer owns the system tick: a hardware timer interrupts at
// FrequencyHz and each interrupt advances a process-wide 32-bit counter.
package timer

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"trustg33k/g33kos/critical"
)

// FrequencyHz is the tick rate (1 tick = 1ms).
const FrequencyHz = 1_000

// Tick is the monotonic counter value. It wraps after 2^32 ticks (~49 days).
type Tick = uint32

// ErrAlreadyInitialized is returned by a second Init.
var ErrAlreadyInitialized = errors.New("system timer already initialized")

// Peripheral is the hardware timer consumed by the tick source.
type Peripheral interface {
	// Start configures auto-reload with the given period.
	Start(period time.Duration) error
	// Listen enables the timer's interrupt output.
	Listen()
	// ClearInterrupt acknowledges a pending interrupt.
	ClearInterrupt()
	// Bind routes the timer interrupt to isr and enables it.
	Bind(isr func()) error
}

// Source is a tick counter plus the stored hardware timer.
type Source struct {
	ticks atomic.Uint32

	// hw is guarded by the critical section.
	hw Peripheral
}

// Default is the process-wide tick source.
var Default = &Source{}

// Init configures hw to interrupt at FrequencyHz and stores it so the
// interrupt handler can acknowledge interrupts.
//
// It may be called once; later calls return ErrAlreadyInitialized and touch nothing.
func (s *Source) Init(hw Peripheral) error {
	var err error
	critical.With(func() {
		if s.hw != nil {
			err = ErrAlreadyInitialized
			return
		}
		if hw == nil {
			err = errors.New("timer: nil peripheral")
			return
		}

		period := time.Second / FrequencyHz
		if e := hw.Start(period); e != nil {
			err = fmt.Errorf("timer: start: %w", e)
			return
		}
		hw.Listen()

		// Stored before binding: the first interrupt may fire as soon as Bind returns,
		// but it cannot enter the critical section until we leave it.
		s.hw = hw
		if e := hw.Bind(s.HandleInterrupt); e != nil {
			s.hw = nil
			err = fmt.Errorf("timer: enable interrupt: %w", e)
		}
	})
	return err
}

// Initialized reports whether Init succeeded.
func (s *Source) Initialized() bool {
	var ok bool
	critical.With(func() { ok = s.hw != nil })
	return ok
}

// Ticks returns the number of ticks since Init. It never blocks.
func (s *Source) Ticks() Tick {
	return s.ticks.Load()
}

// HandleInterrupt is the timer interrupt handler.
//
// The counter moves first so waiting tasks see the tick as early as possible;
// the acknowledgment only needs the stored peripheral.
func (s *Source) HandleInterrupt() {
	s.ticks.Add(1)

	critical.With(func() {
		if s.hw != nil {
			s.hw.ClearInterrupt()
		}
	})
}

// ForceTick runs the interrupt handler by hand, for use without a hardware timer.
func (s *Source) ForceTick() {
	s.HandleInterrupt()
}

// Init initializes the default source.
func Init(hw Peripheral) error { return Default.Init(hw) }

// Ticks reads the default source.
func Ticks() Tick { return Default.Ticks() }

// MsToTicks converts milliseconds to ticks, rounding down.
func MsToTicks(ms uint32) uint32 {
	t := uint64(ms) * FrequencyHz / 1_000
	if t > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(t)
}
