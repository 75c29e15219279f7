//go:build !baremetal

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultYAMLMatchesDefault(t *testing.T) {
	cfg, err := Parse([]byte(DefaultYAML))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Default().Validate())
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(strings.TrimSpace(`
oled:
  address: 0x3D
tasks:
  infer:
    enabled: false
`)))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x3D), cfg.OLED.Address)
	assert.False(t, cfg.Tasks.Infer.Enabled)
	assert.True(t, cfg.Tasks.UI.Enabled)
	assert.Equal(t, uint32(500), cfg.Tasks.Heartbeat.PeriodMs)
	assert.Equal(t, uint32(400_000), cfg.I2CFrequencyHz())
}

func TestParseZeroValuesFallBack(t *testing.T) {
	cfg, err := Parse([]byte("heap:\n  size: 0\ntasks:\n  ui:\n    stack: 0\n    period_ms: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().Heap.Size, cfg.Heap.Size)
	assert.Equal(t, Default().Tasks.UI, cfg.Tasks.UI)
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"tiny heap", "heap:\n  size: 512\n", "heap.size must be >= 1024"},
		{"fast bus", "i2c:\n  frequency_khz: 3400\n", "i2c.frequency_khz"},
		{"reserved address", "oled:\n  address: 0x02\n", "oled.address 0x02"},
		{"negative stack", "tasks:\n  ui:\n    stack: -1\n", "tasks.ui.stack must be positive"},
		{"stacks exceed heap", "heap:\n  size: 4096\n", "tasks need 9264 bytes of stack, heap.size is 4096"},
		{"bad yaml", "heap: [", "parse:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDisabledTasksNeedNoStack(t *testing.T) {
	cfg, err := Parse([]byte(`
heap:
  size: 2048
tasks:
  ui:
    enabled: false
  infer:
    enabled: false
`))
	require.NoError(t, err)
	assert.True(t, cfg.Tasks.Heartbeat.Enabled)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("i2c:\n  sda: 8\n  scl: 9\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(8), cfg.I2C.SDA)
	assert.Equal(t, uint8(9), cfg.I2C.SCL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "config: read "))
}
