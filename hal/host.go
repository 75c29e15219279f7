//go:build !baremetal

package hal

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"tinygo.org/x/drivers"

	"trustg33k/g33kos/oled/sim"
)

// PanelAddress is where the simulated OLED answers on the host I2C bus.
const PanelAddress = 0x3C

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	buttons [NumButtons]*virtualPin
	bus     *sim.Bus
	panel   *sim.Panel
	timer   *hostTimer
}

// New returns a host HAL implementation with an emulated I2C bus and OLED panel.
func New() HAL {
	return newHost()
}

func newHost() *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	h := &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		bus:    sim.NewBus(),
		panel:  sim.NewPanel(),
		timer:  &hostTimer{},
	}
	for b := Button(0); b < NumButtons; b++ {
		h.buttons[b] = newPullUpPin(b.String())
	}
	h.bus.Attach(PanelAddress, h.panel)
	return h
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) LED() LED       { return h.led }
func (h *hostHAL) Timer() Timer   { return h.timer }

func (h *hostHAL) Button(b Button) InputPin {
	if b >= NumButtons {
		return nil
	}
	return h.buttons[b]
}

func (h *hostHAL) I2C0(cfg I2CConfig) (drivers.I2C, error) {
	if cfg.FrequencyHz == 0 {
		return nil, errors.New("i2c: zero bus frequency")
	}
	return h.bus, nil
}

// press drives a button pin from the simulator input.
func (h *hostHAL) press(b Button, held bool) {
	h.buttons[b].Set(!held)
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}

func (l *hostLED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
