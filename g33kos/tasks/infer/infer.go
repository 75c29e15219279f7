// Package infer runs the built-in classifier over sensor samples at a fixed rate.
package infer

import (
	"fmt"

	"trustg33k/g33kos/broker"
	"trustg33k/g33kos/kernel"
	"trustg33k/g33kos/ml"
	"trustg33k/g33kos/timer"
	"trustg33k/hal"
)

const DefaultPeriodMs = 100

// Sensor produces one input vector for the model.
type Sensor interface {
	Sample(now timer.Tick, into []ml.Fixed)
}

// Synthetic cycles through idle, motion and alert readings every 4 seconds.
type Synthetic struct{}

var syntheticPhases = [][]float64{
	{0.0, 0.0, 0.0, 0.5},
	{0.2, 0.9, 0.3, 0.5},
	{0.1, 0.2, 1.0, 0.6},
}

func (Synthetic) Sample(now timer.Tick, into []ml.Fixed) {
	var phase int
	switch ms := now % 4000; {
	case ms < 2000:
		phase = 0
	case ms < 3000:
		phase = 1
	default:
		phase = 2
	}
	for i := range into {
		into[i] = ml.FromFloat(syntheticPhases[phase][i%len(syntheticPhases[phase])])
	}
}

type Task struct {
	model    *ml.Model
	sensor   Sensor
	console  broker.Handle[hal.Logger]
	periodMs uint32
	stack    int

	input []ml.Fixed
	runs  uint32
	class int
	score ml.Fixed
	err   error
}

func New(model *ml.Model, sensor Sensor, console broker.Handle[hal.Logger], periodMs uint32, stack int) *Task {
	if periodMs == 0 {
		periodMs = DefaultPeriodMs
	}
	return &Task{
		model:    model,
		sensor:   sensor,
		console:  console,
		periodMs: periodMs,
		stack:    stack,
		input:    make([]ml.Fixed, model.Inputs()),
		class:    -1,
	}
}

func (t *Task) Name() string   { return "ml" }
func (t *Task) StackSize() int { return t.stack }
func (t *Task) Runs() uint32   { return t.runs }

// Class returns the index of the most recent result, or -1 before the first run.
func (t *Task) Class() int { return t.class }

// Summary describes the most recent result for display.
func (t *Task) Summary() string {
	switch {
	case t.err != nil:
		return "error: " + t.err.Error()
	case t.class < 0:
		return "no result yet"
	default:
		return fmt.Sprintf("%s %s", label(t.class), t.score)
	}
}

func (t *Task) Poll(ctx *kernel.Context) kernel.Command {
	t.sensor.Sample(ctx.Now, t.input)
	out, err := t.model.Run(t.input)
	t.runs++
	if err != nil {
		if t.err == nil {
			t.log(fmt.Sprintf("infer: %v", err))
		}
		t.err = err
		return kernel.SleepMs(t.periodMs)
	}
	t.err = nil

	class := ml.Argmax(out)
	t.score = out[class]
	if class != t.class {
		t.class = class
		t.log(fmt.Sprintf("infer: %s (%s)", label(class), t.score))
	}
	return kernel.SleepMs(t.periodMs)
}

func (t *Task) log(s string) {
	t.console.With(func(l *hal.Logger) { (*l).WriteLineString(s) })
}

func label(class int) string {
	if class >= 0 && class < len(ml.Classes) {
		return ml.Classes[class]
	}
	return fmt.Sprintf("class%d", class)
}
