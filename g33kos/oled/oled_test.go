package oled

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustg33k/g33kos/oled/sim"
)

func newDisplay(t *testing.T) (*Display, *sim.Panel) {
	t.Helper()
	bus := sim.NewBus()
	panel := sim.NewPanel()
	bus.Attach(DefaultAddress, panel)

	d, err := New(bus, Config{})
	require.NoError(t, err)
	return d, panel
}

func litRows(p *sim.Panel) (minY, maxY int) {
	minY, maxY = Height, -1
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if p.Pixel(x, y) {
				minY = min(minY, y)
				maxY = max(maxY, y)
			}
		}
	}
	return minY, maxY
}

func TestNewTurnsPanelOnBlank(t *testing.T) {
	_, panel := newDisplay(t)
	assert.True(t, panel.On())
	assert.Equal(t, 0, panel.Lit())
	assert.Equal(t, 1, panel.Frames())
}

func TestNewWithoutDevice(t *testing.T) {
	bus := sim.NewBus()
	d, err := New(bus, Config{Address: 0x3D})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, sim.ErrNoAck)
}

func TestNewBusError(t *testing.T) {
	bus := sim.NewBus()
	bus.Attach(DefaultAddress, sim.NewPanel())
	boom := errors.New("arbitration lost")
	bus.FailWith(boom)

	_, err := New(bus, Config{})
	assert.ErrorIs(t, err, boom)
}

func TestNewNilBus(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)
}

func TestShowLinesFlushesBuffer(t *testing.T) {
	d, panel := newDisplay(t)
	require.NoError(t, d.ShowLines([]string{"HELLO"}))

	assert.Positive(t, panel.Lit())
	minY, maxY := litRows(panel)
	assert.GreaterOrEqual(t, minY, 0)
	assert.Less(t, maxY, lineSpacing)

	for y := int16(0); y < Height; y++ {
		for x := int16(0); x < Width; x++ {
			if d.Pixel(x, y) != panel.Pixel(int(x), int(y)) {
				t.Fatalf("pixel (%d,%d): buffer %v, panel %v", x, y, d.Pixel(x, y), panel.Pixel(int(x), int(y)))
			}
		}
	}
}

func TestShowLinesClipsToVisible(t *testing.T) {
	d, panel := newDisplay(t)
	lines := []string{"A", "B", "C", "D", "E", "F", "G"}
	require.NoError(t, d.ShowLines(lines))

	_, maxY := litRows(panel)
	assert.Less(t, maxY, VisibleLines*lineSpacing)
}

func TestShowScrollableClamps(t *testing.T) {
	lines := []string{"ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN"}

	a, pa := newDisplay(t)
	b, pb := newDisplay(t)
	require.NoError(t, a.ShowScrollable(lines, 99))
	require.NoError(t, b.ShowLines(lines[len(lines)-VisibleLines:]))
	assert.Equal(t, pb.Lit(), pa.Lit())

	require.NoError(t, a.ShowScrollable(lines, -3))
	require.NoError(t, b.ShowLines(lines))
	assert.Equal(t, pb.Lit(), pa.Lit())

	require.NoError(t, a.ShowScrollable(lines[:2], 1))
	require.NoError(t, b.ShowLines(lines[:2]))
	assert.Equal(t, pb.Lit(), pa.Lit())
}

func TestClear(t *testing.T) {
	d, panel := newDisplay(t)
	require.NoError(t, d.ShowBootProgress("heap"))
	require.Positive(t, panel.Lit())

	require.NoError(t, d.Clear())
	assert.Equal(t, 0, panel.Lit())
}

func TestShowTable(t *testing.T) {
	d, panel := newDisplay(t)
	require.NoError(t, d.ShowTable("PARTITIONS", [][2]string{{"app", "1MB"}, {"data", "512KB"}}))

	right := false
	for y := lineSpacing; y < Height; y++ {
		for x := sizeColumn; x < Width; x++ {
			right = right || panel.Pixel(x, y)
		}
	}
	assert.True(t, right, "second column drawn")
}

func TestFlushErrorSurfaces(t *testing.T) {
	bus := sim.NewBus()
	bus.Attach(DefaultAddress, sim.NewPanel())
	d, err := New(bus, Config{})
	require.NoError(t, err)

	bus.Detach(DefaultAddress)
	assert.ErrorIs(t, d.ShowAppInfo("app", "1.0"), sim.ErrNoAck)
	assert.Same(t, bus, d.Bus())
}

func TestInitLeavesPanelHorizontal(t *testing.T) {
	d, panel := newDisplay(t)
	d.SetPixel(Width-1, 8, on)
	d.SetPixel(0, 9, on)
	require.NoError(t, d.Display())

	assert.True(t, panel.Pixel(Width-1, 8))
	assert.True(t, panel.Pixel(0, 9))
	assert.Equal(t, 2, panel.Lit())
}

func TestFlushResetsAddressWindow(t *testing.T) {
	bus := sim.NewBus()
	panel := sim.NewPanel()
	bus.Attach(DefaultAddress, panel)
	d, err := New(bus, Config{})
	require.NoError(t, err)

	// Someone else on the bus narrows the window.
	require.NoError(t, bus.Tx(DefaultAddress, []byte{0x00, 0x21, 10, 20, 0x22, 3, 4}, nil))

	d.SetPixel(0, 0, on)
	require.NoError(t, d.Display())
	assert.True(t, panel.Pixel(0, 0))
	assert.Equal(t, 1, panel.Lit())
}

func TestSetPixelBlackClears(t *testing.T) {
	d, _ := newDisplay(t)
	d.SetPixel(3, 3, on)
	assert.True(t, d.Pixel(3, 3))
	d.SetPixel(3, 3, color.RGBA{A: 0xFF})
	assert.False(t, d.Pixel(3, 3))

	d.SetPixel(-1, 0, on)
	d.SetPixel(Width, Height, on)
	assert.False(t, d.Pixel(-1, 0))

	w, h := d.Size()
	assert.Equal(t, int16(Width), w)
	assert.Equal(t, int16(Height), h)
}
