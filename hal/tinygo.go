//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
)

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	buttons [NumButtons]*pinInput
	timer   *tinyGoTimer
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Buttons: GP10 (up), GP11 (down), GP12 (select), active-low with pull-ups.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	h := &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
		timer:  &tinyGoTimer{},
	}
	pins := [NumButtons]machine.Pin{
		ButtonUp:     machine.GP10,
		ButtonDown:   machine.GP11,
		ButtonSelect: machine.GP12,
	}
	for b, pin := range pins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		h.buttons[b] = &pinInput{name: Button(b).String(), pin: pin}
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) LED() LED       { return h.led }
func (h *tinyGoHAL) Timer() Timer   { return h.timer }

func (h *tinyGoHAL) Button(b Button) InputPin {
	if b >= NumButtons {
		return nil
	}
	return h.buttons[b]
}

func (h *tinyGoHAL) I2C0(cfg I2CConfig) (drivers.I2C, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: cfg.FrequencyHz,
		SDA:       machine.Pin(cfg.SDA),
		SCL:       machine.Pin(cfg.SCL),
	})
	if err != nil {
		return nil, err
	}
	return bus, nil
}
