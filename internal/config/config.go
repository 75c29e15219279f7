// Package config holds the board and task settings. The bare-metal build
// uses Default; the host simulator can override it from a YAML file.
package config

import (
	"fmt"

	"trustg33k/g33kos/stack"
)

// DefaultYAML documents the built-in configuration. Default returns the same values.
const DefaultYAML = `# trustg33k board configuration
heap:
  size: 65536

i2c:
  frequency_khz: 400
  sda: 4
  scl: 5

oled:
  address: 0x3C

# period_ms is how long a task sleeps between polls.
tasks:
  ui:
    enabled: true
    stack: 4096
    period_ms: 50
  heartbeat:
    enabled: true
    stack: 1024
    period_ms: 500
  infer:
    enabled: true
    stack: 4096
    period_ms: 100
`

// HeapConfig sizes the stack arena.
type HeapConfig struct {
	Size int `yaml:"size"`
}

// I2CConfig describes bus 0.
type I2CConfig struct {
	FrequencyKHz uint32 `yaml:"frequency_khz"`
	SDA          uint8  `yaml:"sda"`
	SCL          uint8  `yaml:"scl"`
}

// OLEDConfig describes the display.
type OLEDConfig struct {
	Address uint16 `yaml:"address"`
}

// TaskConfig enables and sizes one task.
type TaskConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Stack    int    `yaml:"stack"`
	PeriodMs uint32 `yaml:"period_ms"`
}

// TasksConfig lists the built-in tasks.
type TasksConfig struct {
	UI        TaskConfig `yaml:"ui"`
	Heartbeat TaskConfig `yaml:"heartbeat"`
	Infer     TaskConfig `yaml:"infer"`
}

// Config is the full configuration.
type Config struct {
	Heap  HeapConfig  `yaml:"heap"`
	I2C   I2CConfig   `yaml:"i2c"`
	OLED  OLEDConfig  `yaml:"oled"`
	Tasks TasksConfig `yaml:"tasks"`
}

const (
	minHeap = 1024

	// defaultOLEDAddress is where 128x64 SSD1306 modules usually answer.
	defaultOLEDAddress = 0x3C
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Heap: HeapConfig{Size: stack.DefaultHeapSize},
		I2C:  I2CConfig{FrequencyKHz: 400, SDA: 4, SCL: 5},
		OLED: OLEDConfig{Address: defaultOLEDAddress},
		Tasks: TasksConfig{
			UI:        TaskConfig{Enabled: true, Stack: stack.DefaultSize, PeriodMs: 50},
			Heartbeat: TaskConfig{Enabled: true, Stack: 1024, PeriodMs: 500},
			Infer:     TaskConfig{Enabled: true, Stack: stack.DefaultSize, PeriodMs: 100},
		},
	}
}

// I2CFrequencyHz returns the bus frequency in Hz.
func (c Config) I2CFrequencyHz() uint32 { return c.I2C.FrequencyKHz * 1000 }

func (c *Config) applyDefaults() {
	def := Default()
	if c.Heap.Size == 0 {
		c.Heap.Size = def.Heap.Size
	}
	if c.I2C.FrequencyKHz == 0 {
		c.I2C.FrequencyKHz = def.I2C.FrequencyKHz
	}
	if c.OLED.Address == 0 {
		c.OLED.Address = def.OLED.Address
	}
	c.Tasks.UI.applyDefaults(def.Tasks.UI)
	c.Tasks.Heartbeat.applyDefaults(def.Tasks.Heartbeat)
	c.Tasks.Infer.applyDefaults(def.Tasks.Infer)
}

func (t *TaskConfig) applyDefaults(def TaskConfig) {
	if t.Stack == 0 {
		t.Stack = def.Stack
	}
	if t.PeriodMs == 0 {
		t.PeriodMs = def.PeriodMs
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if c.Heap.Size < minHeap {
		return fmt.Errorf("heap.size must be >= %d", minHeap)
	}
	if c.I2C.FrequencyKHz > 1000 {
		return fmt.Errorf("i2c.frequency_khz must be <= 1000")
	}
	if c.OLED.Address < 0x08 || c.OLED.Address > 0x77 {
		return fmt.Errorf("oled.address 0x%02X is outside the 7-bit range", c.OLED.Address)
	}

	need := 0
	for _, t := range []struct {
		name string
		cfg  TaskConfig
	}{
		{"ui", c.Tasks.UI},
		{"heartbeat", c.Tasks.Heartbeat},
		{"infer", c.Tasks.Infer},
	} {
		if !t.cfg.Enabled {
			continue
		}
		if t.cfg.Stack < 0 {
			return fmt.Errorf("tasks.%s.stack must be positive", t.name)
		}
		need += roundUp(stack.AllocationSize(t.cfg.Stack), stack.Align)
	}
	if need > c.Heap.Size {
		return fmt.Errorf("tasks need %d bytes of stack, heap.size is %d", need, c.Heap.Size)
	}
	return nil
}

func roundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
