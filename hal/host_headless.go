//go:build !baremetal

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
}

// RunHeadless runs the OS without opening a window. Each frame advances the
// simulated timer by one frame period and then calls the app step.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost()
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()
	return runFrames(ctx, h, step, t.C, d, cfg.Ticks)
}

func runFrames(ctx context.Context, h *hostHAL, step func() error, frames <-chan time.Time, d time.Duration, limit uint64) error {
	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frames:
			h.timer.advance(d)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			n++
			if limit > 0 && n >= limit {
				return nil
			}
		}
	}
}
