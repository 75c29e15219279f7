//go:build !baremetal && !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"trustg33k/g33kos/oled/sim"
	"trustg33k/internal/buildinfo"
)

const windowScale = 5

var (
	panelInk   = [3]byte{0x9F, 0xE8, 0xFF}
	panelPaper = [3]byte{0x04, 0x08, 0x10}
)

// RunWindow opens a desktop window showing the simulated OLED. Arrow keys
// and Enter drive the buttons; Escape closes the window.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error) error {
	h := newHost()
	step := newApp(h)

	g := &hostGame{h: h, step: step, pix: make([]byte, sim.PanelWidth*sim.PanelHeight*4)}
	ebiten.SetWindowTitle("TrustG33k (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(sim.PanelWidth*windowScale, sim.PanelHeight*windowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	step  func() error
	pix   []byte
	panel *ebiten.Image
}

var buttonKeys = [NumButtons]ebiten.Key{
	ButtonUp:     ebiten.KeyArrowUp,
	ButtonDown:   ebiten.KeyArrowDown,
	ButtonSelect: ebiten.KeyEnter,
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for b, key := range buttonKeys {
		g.h.press(Button(b), ebiten.IsKeyPressed(key))
	}

	g.h.timer.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.panel == nil {
		g.panel = ebiten.NewImage(sim.PanelWidth, sim.PanelHeight)
	}
	g.h.panel.RenderRGBA(g.pix, panelInk, panelPaper)
	g.panel.WritePixels(g.pix)
	screen.DrawImage(g.panel, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return sim.PanelWidth, sim.PanelHeight
}
