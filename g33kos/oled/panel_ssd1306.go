//go:build tinygo && baremetal

package oled

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

func newPanel(bus drivers.I2C, addr uint16) panel {
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:    Width,
		Height:   Height,
		Address:  addr,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	return dev
}
