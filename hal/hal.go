package hal

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoTimer        = errors.New("timer not started")
)

// I2CConfig selects bus speed and pins. Pins are board pin numbers and are
// ignored where the bus is emulated.
type I2CConfig struct {
	FrequencyHz uint32
	SDA         uint8
	SCL         uint8
}

// Timer is a periodic hardware timer that raises an interrupt every period.
type Timer interface {
	Start(period time.Duration) error
	Listen()
	ClearInterrupt()
	Bind(isr func()) error
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Button(b Button) InputPin
	I2C0(cfg I2CConfig) (drivers.I2C, error)
	Timer() Timer
}
