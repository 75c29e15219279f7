//go:build !baremetal

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"trustg33k/app"
	"trustg33k/hal"
	"trustg33k/internal/config"
)

func main() {
	var hcfg hal.HeadlessConfig
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Board configuration YAML (defaults built in).")
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, cfg) }

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
