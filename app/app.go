package app

import (
	"context"
	"fmt"
	"runtime"

	"trustg33k/g33kos/board"
	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/kernel"
	"trustg33k/g33kos/ml"
	"trustg33k/g33kos/oled"
	"trustg33k/g33kos/stack"
	"trustg33k/g33kos/tasks/heartbeat"
	"trustg33k/g33kos/tasks/infer"
	"trustg33k/g33kos/tasks/ui"
	"trustg33k/g33kos/timer"
	"trustg33k/hal"
	"trustg33k/internal/buildinfo"
	"trustg33k/internal/config"
)

type system struct {
	cfg     config.Config
	board   *board.Board
	console broker.Handle[hal.Logger]
	display broker.Handle[*oled.Display]
	clock   *timer.Source
	heap    *stack.Heap
	sched   *kernel.Scheduler
	infer   *infer.Task
}

// New boots the system on h and returns the mainline step: one scheduler
// cycle followed by reaping finished tasks.
func New(h hal.HAL, cfg config.Config) func() error {
	s := newSystem(h, cfg, timer.Default)
	return s.step
}

// Run boots the system and runs the mainline forever (TinyGo/native entrypoint).
func Run(h hal.HAL, cfg config.Config) {
	_ = loop(context.Background(), New(h, cfg), runtime.Gosched)
}

// loop steps the mainline until ctx ends or a step fails. yield runs after
// every step: on a cooperative goroutine scheduler the timer goroutine only
// gets the CPU there.
func loop(ctx context.Context, step func() error, yield func()) error {
	for ctx.Err() == nil {
		if err := step(); err != nil {
			return err
		}
		yield()
	}
	return ctx.Err()
}

func newSystem(h hal.HAL, cfg config.Config, clock *timer.Source) *system {
	s := &system{cfg: cfg, board: board.New(), clock: clock}

	// Without a console the boot continues silently.
	s.console, _ = s.board.InitConsole(h)
	s.logf("Initializing system...")

	led, err := s.board.InitLED(h)
	s.report(err)
	buttons, err := s.board.InitButtons(h)
	s.report(err)

	s.logf("Initializing I2C0 for OLED display...")
	bus, err := s.board.InitI2C0(h, hal.I2CConfig{
		FrequencyHz: cfg.I2CFrequencyHz(),
		SDA:         cfg.I2C.SDA,
		SCL:         cfg.I2C.SCL,
	})
	s.report(err)
	if err == nil {
		s.display, err = s.board.InitOLED(bus, oled.Config{Address: cfg.OLED.Address})
		s.report(err)
		if err == nil {
			s.logf("OLED display initialized")
		}
	}
	// A failed OLED leaves s.display invalid; its operations then report absent.
	if !s.display.Valid() {
		s.display = broker.HandleFor(s.board.OLED)
	}
	s.show(func(d *oled.Display) error { return d.ShowBootProgress("Starting...") })

	if err := clock.Init(h.Timer()); err != nil {
		s.logf("Timer init failed: %v", err)
	}

	s.heap = stack.NewHeap(cfg.Heap.Size)
	s.sched = kernel.New(clock, s.heap,
		kernel.WithLogger(consoleLog{s.console}),
		kernel.WithFaultHandler(s.fault),
	)

	s.show(func(d *oled.Display) error { return d.ShowAppInfo(buildinfo.Name, buildinfo.Short()) })
	s.logf("App: %s v%s", buildinfo.Name, buildinfo.Short())
	s.logf("Partitions:")
	for _, p := range buildinfo.Partitions {
		s.logf("  %s: %s", p.Name, buildinfo.FormatSize(p.Size))
	}

	tc := cfg.Tasks
	if tc.UI.Enabled {
		s.spawn(ui.New(ui.Config{
			Display:     s.display,
			Buttons:     buttons,
			LED:         led,
			Console:     s.console,
			AppName:     buildinfo.Name,
			Version:     buildinfo.Short(),
			Partitions:  buildinfo.Partitions,
			Inference:   s.inferenceSummary,
			Diagnostics: s.diagnostics,
			PeriodMs:    tc.UI.PeriodMs,
			Stack:       tc.UI.Stack,
		}))
	}
	if tc.Heartbeat.Enabled {
		s.spawn(heartbeat.New(led, tc.Heartbeat.PeriodMs, tc.Heartbeat.Stack))
	}
	if tc.Infer.Enabled {
		s.infer = infer.New(ml.Builtin(), infer.Synthetic{}, s.console, tc.Infer.PeriodMs, tc.Infer.Stack)
		s.spawn(s.infer)
	}

	return s
}

func (s *system) step() error {
	s.sched.RunReady()
	s.sched.Reap()
	return nil
}

func (s *system) spawn(t kernel.Task) {
	id, err := s.sched.Spawn(t)
	if err != nil {
		s.logf("Spawn %s failed: %v", t.Name(), err)
		return
	}
	s.logf("Spawned task %s (#%d)", t.Name(), id)
}

// report logs a failed driver init. InitError already reads
// "<Subsystem> init failed: <reason>".
func (s *system) report(err error) {
	if err != nil {
		s.logf("%v", err)
	}
}

func (s *system) show(draw func(d *oled.Display) error) {
	s.display.With(func(d **oled.Display) {
		if err := draw(*d); err != nil {
			s.logf("OLED: %v", err)
		}
	})
}

func (s *system) inferenceSummary() string {
	if s.infer == nil {
		return "disabled"
	}
	return s.infer.Summary()
}

func (s *system) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.console.With(func(l *hal.Logger) { (*l).WriteLineString(msg) })
}

// consoleLog adapts the console handle to kernel.Logger.
type consoleLog struct {
	h broker.Handle[hal.Logger]
}

func (c consoleLog) WriteLineString(s string) {
	c.h.With(func(l *hal.Logger) { (*l).WriteLineString(s) })
}
