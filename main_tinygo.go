//go:build tinygo && baremetal

package main

import (
	"trustg33k/app"
	"trustg33k/hal"
	"trustg33k/internal/config"
)

func main() {
	app.Run(hal.New(), config.Default())
}
