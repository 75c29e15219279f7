// Package ui is the front-panel menu: a scrolling list on the OLED driven by
// the UP/DOWN/SELECT buttons.
package ui

import (
	"fmt"

	"trustg33k/g33kos/board"
	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/kernel"
	"trustg33k/g33kos/oled"
	"trustg33k/hal"
	"trustg33k/internal/buildinfo"
)

const DefaultPeriodMs = 50

type feature uint8

const (
	featureAbout feature = iota
	featureAppInfo
	featureVersion
	featurePartition
	featureInference
	featureToggleLED
	featureDiagnostics
	featureInstructions
)

type item struct {
	label   string
	feature feature
}

type view uint8

const (
	viewMenu view = iota
	viewAbout
	viewAppInfo
	viewPartitions
	viewInference
	viewDiagnostics
)

// Config wires the task to its peripherals and information sources.
// Missing handles are tolerated: the task keeps running and skips the output.
type Config struct {
	Display broker.Handle[*oled.Display]
	Buttons broker.Handle[*board.Buttons]
	LED     broker.Handle[hal.LED]
	Console broker.Handle[hal.Logger]

	AppName    string
	Version    string
	Partitions []buildinfo.Partition

	// Inference returns a one-line summary of the latest inference result.
	Inference func() string

	// Diagnostics returns the lines of the diagnostics screen.
	Diagnostics func() []string

	PeriodMs uint32
	Stack    int
}

type edge struct{ held bool }

// press reports a released-to-held transition.
func (e *edge) press(held bool) bool {
	p := held && !e.held
	e.held = held
	return p
}

type Task struct {
	cfg   Config
	items []item

	selected int
	offset   int
	view     view
	scroll   int
	logged   int
	dirty    bool
	ledOn    bool

	up, down, sel edge
}

func New(cfg Config) *Task {
	if cfg.PeriodMs == 0 {
		cfg.PeriodMs = DefaultPeriodMs
	}
	t := &Task{cfg: cfg, logged: -1, dirty: true}
	t.items = append(t.items,
		item{"About TrustG33k OS", featureAbout},
		item{"App: " + cfg.AppName, featureAppInfo},
		item{"Version: " + cfg.Version, featureVersion},
	)
	for _, p := range cfg.Partitions {
		t.items = append(t.items, item{p.Name + ": " + buildinfo.FormatSize(p.Size), featurePartition})
	}
	t.items = append(t.items,
		item{"Run ML Inference", featureInference},
		item{"Toggle LED", featureToggleLED},
		item{"Diagnostics", featureDiagnostics},
		item{"Use UP/DOWN/OK", featureInstructions},
	)
	return t
}

func (t *Task) Name() string              { return "ui" }
func (t *Task) Priority() kernel.Priority { return kernel.PriorityHigh }
func (t *Task) StackSize() int            { return t.cfg.Stack }

// Selected returns the label of the highlighted menu item.
func (t *Task) Selected() string { return t.items[t.selected].label }

func (t *Task) Poll(*kernel.Context) kernel.Command {
	t.handleInput()

	// The inference screen follows the live result.
	if t.view == viewInference {
		t.dirty = true
	}
	if t.dirty {
		t.render()
		t.dirty = false
	}
	return kernel.SleepMs(t.cfg.PeriodMs)
}

func (t *Task) handleInput() {
	var held [hal.NumButtons]bool
	broker.TryWith(t.cfg.Buttons, func(b **board.Buttons) struct{} {
		for i := range held {
			held[i] = (*b).Held(hal.Button(i))
		}
		return struct{}{}
	})
	up := t.up.press(held[hal.ButtonUp])
	down := t.down.press(held[hal.ButtonDown])
	sel := t.sel.press(held[hal.ButtonSelect])

	switch t.view {
	case viewMenu:
		t.menuInput(up, down, sel)
	case viewDiagnostics:
		if up && t.scroll > 0 {
			t.scroll--
			t.dirty = true
		}
		if down {
			t.scroll++
			t.dirty = true
		}
		fallthrough
	default:
		if sel {
			t.view = viewMenu
			t.logged = -1
			t.dirty = true
		}
	}
}

func (t *Task) menuInput(up, down, sel bool) {
	if up && t.selected > 0 {
		t.selected--
		t.dirty = true
	}
	if down && t.selected+1 < len(t.items) {
		t.selected++
		t.dirty = true
	}
	if t.selected < t.offset {
		t.offset = t.selected
	} else if t.selected >= t.offset+oled.VisibleLines {
		t.offset = t.selected + 1 - oled.VisibleLines
	}
	if sel {
		t.activate()
	}
}

func (t *Task) activate() {
	switch t.items[t.selected].feature {
	case featureAbout:
		t.view = viewAbout
	case featureAppInfo, featureVersion:
		t.view = viewAppInfo
	case featurePartition:
		t.view = viewPartitions
	case featureInference:
		t.view = viewInference
	case featureDiagnostics:
		t.view = viewDiagnostics
		t.scroll = 0
	case featureToggleLED:
		t.ledOn = !t.ledOn
		on := t.ledOn
		if !t.cfg.LED.With(func(l *hal.LED) {
			if on {
				(*l).High()
			} else {
				(*l).Low()
			}
		}) {
			t.log("LED unavailable")
		}
		return
	case featureInstructions:
		t.log("Use UP/DOWN to move, OK to select")
		return
	}
	t.dirty = true
}

func (t *Task) render() {
	if t.view == viewMenu && t.logged != t.selected {
		t.log("Selected option: " + t.items[t.selected].label)
		t.logged = t.selected
	}
	// Collected before borrowing the display so the OLED cell reads as occupied.
	var diag []string
	if t.view == viewDiagnostics && t.cfg.Diagnostics != nil {
		diag = t.cfg.Diagnostics()
		t.scroll = min(t.scroll, max(len(diag)-oled.VisibleLines, 0))
	}
	// No display is not an error: the menu still runs on the console.
	t.cfg.Display.With(func(d **oled.Display) {
		if err := t.draw(*d, diag); err != nil {
			t.log(fmt.Sprintf("ui: render: %v", err))
		}
	})
}

func (t *Task) draw(d *oled.Display, diag []string) error {
	switch t.view {
	case viewAbout:
		return d.ShowLines([]string{
			"TrustG33k OS",
			"App: " + t.cfg.AppName,
			"Version: " + t.cfg.Version,
			"",
			"> <OK>",
		})
	case viewAppInfo:
		return d.ShowAppInfo(t.cfg.AppName, t.cfg.Version)
	case viewPartitions:
		rows := make([][2]string, 0, len(t.cfg.Partitions))
		for _, p := range t.cfg.Partitions {
			rows = append(rows, [2]string{p.Name, buildinfo.FormatSize(p.Size)})
		}
		return d.ShowTable("Partitions", rows)
	case viewInference:
		result := "unavailable"
		if t.cfg.Inference != nil {
			result = t.cfg.Inference()
		}
		return d.ShowLines([]string{"ML Inference", result, "", "", "> <OK>"})
	case viewDiagnostics:
		return d.ShowScrollable(diag, t.scroll)
	default:
		return d.ShowLines(t.menuLines())
	}
}

func (t *Task) menuLines() []string {
	end := min(t.offset+oled.VisibleLines, len(t.items))
	lines := make([]string, 0, end-t.offset)
	for i := t.offset; i < end; i++ {
		prefix := "  "
		if i == t.selected {
			prefix = "> "
		}
		lines = append(lines, prefix+t.items[i].label)
	}
	return lines
}

func (t *Task) log(s string) {
	t.cfg.Console.With(func(l *hal.Logger) { (*l).WriteLineString(s) })
}
