// Package sim emulates an I2C bus with an SSD1306 panel attached, for the
// host simulator and for tests.
package sim

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoAck is returned for transfers to an address with no device.
var ErrNoAck = errors.New("i2c: no ack")

// Device is a peripheral on the emulated bus.
type Device interface {
	Tx(w, r []byte) error
}

// Bus implements drivers.I2C over attached devices.
type Bus struct {
	mu      sync.Mutex
	devices map[uint16]Device
	fail    error
	txs     int
}

func NewBus() *Bus {
	return &Bus{devices: make(map[uint16]Device)}
}

// Attach places dev at addr, replacing any device already there.
func (b *Bus) Attach(addr uint16, dev Device) {
	b.mu.Lock()
	b.devices[addr] = dev
	b.mu.Unlock()
}

// Detach removes the device at addr.
func (b *Bus) Detach(addr uint16) {
	b.mu.Lock()
	delete(b.devices, addr)
	b.mu.Unlock()
}

// FailWith makes every following transfer return err. A nil err clears it.
func (b *Bus) FailWith(err error) {
	b.mu.Lock()
	b.fail = err
	b.mu.Unlock()
}

// Transfers returns the number of transfers attempted.
func (b *Bus) Transfers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txs
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	b.txs++
	fail := b.fail
	dev := b.devices[addr]
	b.mu.Unlock()

	if fail != nil {
		return fail
	}
	if dev == nil {
		return fmt.Errorf("%w at 0x%02X", ErrNoAck, addr)
	}
	return dev.Tx(w, r)
}
