//go:build tinygo && baremetal

package hal

import (
	"machine"
	"sync/atomic"
	"time"
)

// tinyGoTimer delivers the tick interrupt from a goroutine. It sleeps until
// the next deadline and then raises one interrupt per elapsed period, so a
// late wakeup catches up instead of dropping ticks. The mainline must yield
// for it to run under the cooperative scheduler.
type tinyGoTimer struct {
	period    time.Duration
	listening atomic.Bool
	pending   atomic.Bool
	running   bool
}

func (t *tinyGoTimer) Start(period time.Duration) error {
	if period <= 0 {
		return ErrNoTimer
	}
	t.period = period
	return nil
}

func (t *tinyGoTimer) Listen()         { t.listening.Store(true) }
func (t *tinyGoTimer) ClearInterrupt() { t.pending.Store(false) }

func (t *tinyGoTimer) Bind(isr func()) error {
	if t.period <= 0 {
		return ErrNoTimer
	}
	if t.running {
		return nil
	}
	t.running = true
	go t.run(isr)
	return nil
}

func (t *tinyGoTimer) run(isr func()) {
	next := time.Now().Add(t.period)
	for {
		time.Sleep(time.Until(next))
		for now := time.Now(); !now.Before(next); next = next.Add(t.period) {
			if t.listening.Load() {
				t.pending.Store(true)
				isr()
			}
		}
	}
}

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type pinInput struct {
	name string
	pin  machine.Pin
}

func (p *pinInput) Name() string { return p.name }
func (p *pinInput) Get() bool    { return p.pin.Get() }
