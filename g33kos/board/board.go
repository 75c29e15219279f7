// Package board owns the concrete peripherals of the device. Each one lives
// in a broker cell; the Init functions construct it once and return a handle.
package board

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"

	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/oled"
	"trustg33k/hal"
)

// Buttons reads the front-panel buttons.
type Buttons struct {
	pins [hal.NumButtons]hal.InputPin
}

// NewButtons wraps the button input pins, indexed by hal.Button.
func NewButtons(pins [hal.NumButtons]hal.InputPin) *Buttons {
	return &Buttons{pins: pins}
}

// Held reports whether b is pressed. Pins are active-low; a missing pin is never held.
func (bt *Buttons) Held(b hal.Button) bool {
	if b >= hal.NumButtons || bt.pins[b] == nil {
		return false
	}
	return !bt.pins[b].Get()
}

// Board is the set of resource cells.
type Board struct {
	Console *broker.Cell[hal.Logger]
	LED     *broker.Cell[hal.LED]
	Buttons *broker.Cell[*Buttons]
	I2C0    *broker.Cell[drivers.I2C]
	OLED    *broker.Cell[*oled.Display]

	Registry broker.Registry
}

func New() *Board {
	b := &Board{
		Console: broker.NewCell[hal.Logger]("UART0"),
		LED:     broker.NewCell[hal.LED]("LED"),
		Buttons: broker.NewCell[*Buttons]("BUTTONS"),
		I2C0:    broker.NewCell[drivers.I2C]("I2C0"),
		OLED:    broker.NewCell[*oled.Display]("OLED"),
	}
	b.Registry.Register(b.Console, b.LED, b.Buttons, b.I2C0, b.OLED)
	return b
}

func (b *Board) InitConsole(h hal.HAL) (broker.Handle[hal.Logger], error) {
	return broker.Install(b.Console, func() (hal.Logger, error) {
		l := h.Logger()
		if l == nil {
			return nil, errors.New("uart init")
		}
		return l, nil
	})
}

func (b *Board) InitLED(h hal.HAL) (broker.Handle[hal.LED], error) {
	return broker.Install(b.LED, func() (hal.LED, error) {
		led := h.LED()
		if led == nil {
			return nil, errors.New("gpio init")
		}
		led.Low()
		return led, nil
	})
}

func (b *Board) InitButtons(h hal.HAL) (broker.Handle[*Buttons], error) {
	return broker.Install(b.Buttons, func() (*Buttons, error) {
		var pins [hal.NumButtons]hal.InputPin
		for i := range pins {
			pins[i] = h.Button(hal.Button(i))
			if pins[i] == nil {
				return nil, fmt.Errorf("gpio init: no pin for %s", hal.Button(i))
			}
		}
		return NewButtons(pins), nil
	})
}

func (b *Board) InitI2C0(h hal.HAL, cfg hal.I2CConfig) (broker.Handle[drivers.I2C], error) {
	return broker.Install(b.I2C0, func() (drivers.I2C, error) {
		bus, err := h.I2C0(cfg)
		if err != nil {
			return nil, fmt.Errorf("i2c init: %w", err)
		}
		return bus, nil
	})
}

// InitOLED moves the I2C bus out of its cell into the display driver. If
// the display cannot be brought up the bus is returned to its cell.
func (b *Board) InitOLED(bus broker.Handle[drivers.I2C], cfg oled.Config) (broker.Handle[*oled.Display], error) {
	return broker.Handoff(bus, b.OLED, func(i2c drivers.I2C) (*oled.Display, error) {
		d, err := oled.New(i2c, cfg)
		if err != nil {
			return nil, fmt.Errorf("oled init: %w", err)
		}
		return d, nil
	})
}
