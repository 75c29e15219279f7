//go:build !tinygo || !baremetal

package oled

import (
	"image/color"

	"tinygo.org/x/drivers"
)

const (
	ctrlCommand = 0x00
	ctrlData    = 0x40

	frameBytes = Width * Height / 8
)

// i2cPanel is a buffered SSD1306 written with plain I2C command and data
// transfers. It sends the same init sequence and flush window as the
// device driver, so both builds leave the controller in the same state.
type i2cPanel struct {
	bus  drivers.I2C
	addr uint16

	// buf[0] is the data control byte, the rest is GDDRAM in page order.
	buf [1 + frameBytes]byte
	cmd [8]byte
}

func newPanel(bus drivers.I2C, addr uint16) panel {
	p := &i2cPanel{bus: bus, addr: addr}
	p.buf[0] = ctrlData
	p.init()
	return p
}

// init configures a 128x64 panel with the internal charge pump.
// Command errors are not reported here; the first flush reports them.
func (p *i2cPanel) init() {
	p.command(0xAE)       // DISPLAYOFF
	p.command(0xD5, 0x80) // SETDISPLAYCLOCKDIV
	p.command(0xA8, Height-1)
	p.command(0xD3, 0x00) // SETDISPLAYOFFSET
	p.command(0x40)       // SETSTARTLINE 0
	p.command(0x8D, 0x14) // CHARGEPUMP on
	p.command(0x20, 0x00) // MEMORYMODE horizontal
	p.command(0xA1)       // SEGREMAP
	p.command(0xC8)       // COMSCANDEC
	p.command(0xDA, 0x12) // SETCOMPINS
	p.command(0x81, 0xCF) // SETCONTRAST
	p.command(0xD9, 0xF1) // SETPRECHARGE
	p.command(0xDB, 0x40) // SETVCOMDETECT
	p.command(0xA4)       // DISPLAYALLON_RESUME
	p.command(0xA6)       // NORMALDISPLAY
	p.command(0xAF)       // DISPLAYON
}

func (p *i2cPanel) command(cmd byte, args ...byte) error {
	b := append(p.cmd[:0], ctrlCommand, cmd)
	b = append(b, args...)
	return p.bus.Tx(p.addr, b, nil)
}

func (p *i2cPanel) Size() (x, y int16) { return Width, Height }

// SetPixel lights the pixel for any color other than black.
func (p *i2cPanel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := 1 + int(x) + int(y/8)*Width
	bit := byte(1) << uint(y%8)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		p.buf[i] |= bit
	} else {
		p.buf[i] &^= bit
	}
}

func (p *i2cPanel) GetPixel(x, y int16) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return p.buf[1+int(x)+int(y/8)*Width]&(1<<uint(y%8)) != 0
}

func (p *i2cPanel) ClearBuffer() {
	clear(p.buf[1:])
}

// Display resets the address window to the whole panel and writes the frame.
func (p *i2cPanel) Display() error {
	if err := p.command(0x21, 0, Width-1); err != nil { // COLUMNADDR
		return err
	}
	if err := p.command(0x22, 0, Height/8-1); err != nil { // PAGEADDR
		return err
	}
	return p.bus.Tx(p.addr, p.buf[:], nil)
}
