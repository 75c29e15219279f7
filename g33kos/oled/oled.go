// Package oled drives a 128x64 SSD1306 panel over I2C and renders text
// lines with tinyfont.
package oled

import (
	"errors"
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	Width  = 128
	Height = 64

	// VisibleLines is how many text lines fit on the panel.
	VisibleLines = 5

	// DefaultAddress is the usual I2C address of 128x64 modules.
	DefaultAddress = 0x3C

	lineSpacing = 12
	baseline    = 9
	sizeColumn  = 72
)

var on = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Config selects the panel address.
type Config struct {
	Address uint16
}

// panel is the frame buffer together with the controller it is flushed to.
type panel interface {
	Size() (x, y int16)
	SetPixel(x, y int16, c color.RGBA)
	GetPixel(x, y int16) bool
	ClearBuffer()
	Display() error
}

// Display is an SSD1306 in buffered mode.
type Display struct {
	dev  panel
	bus  drivers.I2C
	font tinyfont.Fonter
}

// New initializes the panel on bus, clears it and pushes one blank frame.
//
// The blank frame doubles as a probe: the init sequence does not report
// bus errors, the flush does. On error the caller still owns bus.
func New(bus drivers.I2C, cfg Config) (*Display, error) {
	if bus == nil {
		return nil, errors.New("oled: nil bus")
	}
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}

	dev := newPanel(bus, cfg.Address)
	dev.ClearBuffer()
	if err := dev.Display(); err != nil {
		return nil, fmt.Errorf("oled: flush: %w", err)
	}

	return &Display{dev: dev, bus: bus, font: &proggy.TinySZ8pt7b}, nil
}

// Size implements drivers.Displayer.
func (d *Display) Size() (x, y int16) { return d.dev.Size() }

// SetPixel implements drivers.Displayer. Any color other than black lights the pixel.
func (d *Display) SetPixel(x, y int16, c color.RGBA) { d.dev.SetPixel(x, y, c) }

// Display implements drivers.Displayer by flushing the frame buffer.
func (d *Display) Display() error { return d.dev.Display() }

// Pixel reports whether the buffered pixel at x, y is lit.
func (d *Display) Pixel(x, y int16) bool { return d.dev.GetPixel(x, y) }

// Bus returns the I2C bus the panel is attached to.
func (d *Display) Bus() drivers.I2C { return d.bus }

// Clear blanks the buffer and the panel.
func (d *Display) Clear() error {
	d.dev.ClearBuffer()
	return d.dev.Display()
}

// ShowLines renders up to VisibleLines lines from the top and flushes.
func (d *Display) ShowLines(lines []string) error {
	d.dev.ClearBuffer()
	for i, line := range lines {
		if i >= VisibleLines {
			break
		}
		d.text(0, i, line)
	}
	return d.dev.Display()
}

// ShowScrollable renders a window of lines starting at start, clamped so the
// window is always full when there are enough lines.
func (d *Display) ShowScrollable(lines []string, start int) error {
	maxStart := len(lines) - VisibleLines
	if maxStart < 0 {
		maxStart = 0
	}
	if start > maxStart {
		start = maxStart
	}
	if start < 0 {
		start = 0
	}
	return d.ShowLines(lines[start:])
}

// ShowBootProgress shows a boot banner with a status message.
func (d *Display) ShowBootProgress(msg string) error {
	return d.ShowLines([]string{"Booting TrustG33k", msg})
}

// ShowAppInfo shows the application name and version.
func (d *Display) ShowAppInfo(name, version string) error {
	return d.ShowLines([]string{"TrustG33k", name, "Version", version})
}

// ShowTable renders a title row followed by two-column rows.
func (d *Display) ShowTable(title string, rows [][2]string) error {
	d.dev.ClearBuffer()
	d.text(0, 0, title)
	for i, row := range rows {
		if i+1 >= VisibleLines {
			break
		}
		d.text(0, i+1, row[0])
		d.text(sizeColumn, i+1, row[1])
	}
	return d.dev.Display()
}

func (d *Display) text(x int16, row int, s string) {
	y := int16(row*lineSpacing + baseline)
	tinyfont.WriteLine(d, d.font, x, y, s, on)
}
