package sim

import (
	"errors"
	"sync"
)

const (
	PanelWidth  = 128
	PanelHeight = 64
	pages       = PanelHeight / 8
)

const (
	ctrlCommand = 0x00
	ctrlData    = 0x40
)

const (
	cmdMemoryMode = 0x20
	cmdColumnAddr = 0x21
	cmdPageAddr   = 0x22
	cmdDisplayOff = 0xAE
	cmdDisplayOn  = 0xAF
	cmdInvertOff  = 0xA6
	cmdInvertOn   = 0xA7
)

const (
	modeHorizontal = 0
	modeVertical   = 1
	modePage       = 2
)

var errControl = errors.New("ssd1306: bad control byte")

// Panel is an SSD1306 controller with 128x64 GDDRAM.
type Panel struct {
	mu sync.Mutex

	ram      [pages][PanelWidth]byte
	on       bool
	inverted bool
	mode     byte

	colStart, colEnd   byte
	pageStart, pageEnd byte
	col, page          byte

	cmd      byte
	args     []byte
	need     int
	commands int
	frames   int
}

func NewPanel() *Panel {
	p := &Panel{mode: modePage}
	p.colEnd = PanelWidth - 1
	p.pageEnd = pages - 1
	return p
}

// Tx accepts one I2C write: a control byte followed by commands or data.
func (p *Panel) Tx(w, _ []byte) error {
	if len(w) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch w[0] {
	case ctrlCommand:
		for _, b := range w[1:] {
			p.feed(b)
		}
	case ctrlData:
		for _, b := range w[1:] {
			p.write(b)
		}
		p.frames++
	default:
		return errControl
	}
	return nil
}

func (p *Panel) feed(b byte) {
	if p.need > 0 {
		p.args = append(p.args, b)
		p.need--
		if p.need == 0 {
			p.apply(p.cmd, p.args)
		}
		return
	}
	p.commands++
	p.cmd = b
	p.args = p.args[:0]
	p.need = argCount(b)
	if p.need == 0 {
		p.apply(b, nil)
	}
}

func argCount(cmd byte) int {
	switch cmd {
	case cmdColumnAddr, cmdPageAddr:
		return 2
	case cmdMemoryMode, 0x81, 0x8D, 0xA8, 0xD3, 0xD5, 0xD9, 0xDA, 0xDB:
		return 1
	}
	return 0
}

func (p *Panel) apply(cmd byte, args []byte) {
	switch cmd {
	case cmdDisplayOn:
		p.on = true
	case cmdDisplayOff:
		p.on = false
	case cmdInvertOn:
		p.inverted = true
	case cmdInvertOff:
		p.inverted = false
	case cmdMemoryMode:
		p.mode = args[0] & 0x03
	case cmdColumnAddr:
		p.colStart, p.colEnd = args[0]&0x7F, args[1]&0x7F
		p.col = p.colStart
	case cmdPageAddr:
		p.pageStart, p.pageEnd = args[0]&0x07, args[1]&0x07
		p.page = p.pageStart
	}
}

func (p *Panel) write(b byte) {
	p.ram[p.page][p.col] = b

	switch p.mode {
	case modeHorizontal:
		if p.col < p.colEnd {
			p.col++
			return
		}
		p.col = p.colStart
		if p.page < p.pageEnd {
			p.page++
		} else {
			p.page = p.pageStart
		}
	case modeVertical:
		if p.page < p.pageEnd {
			p.page++
			return
		}
		p.page = p.pageStart
		if p.col < p.colEnd {
			p.col++
		} else {
			p.col = p.colStart
		}
	default:
		if p.col < PanelWidth-1 {
			p.col++
		}
	}
}

// On reports whether the panel received DISPLAYON more recently than DISPLAYOFF.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Pixel reports whether the GDDRAM bit for x, y is set.
func (p *Panel) Pixel(x, y int) bool {
	if x < 0 || x >= PanelWidth || y < 0 || y >= PanelHeight {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ram[y/8][x]>>(uint(y)%8)&1 == 1
}

// Lit counts the set pixels.
func (p *Panel) Lit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for pg := range p.ram {
		for _, b := range p.ram[pg] {
			for ; b != 0; b &= b - 1 {
				n++
			}
		}
	}
	return n
}

// Frames counts data transfers.
func (p *Panel) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Commands counts command opcodes, arguments excluded.
func (p *Panel) Commands() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commands
}

// RenderRGBA writes the visible image into pix as 8-bit RGBA, which must hold
// PanelWidth*PanelHeight*4 bytes. A panel that is off shows only bg.
func (p *Panel) RenderRGBA(pix []byte, fg, bg [3]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for y := 0; y < PanelHeight; y++ {
		for x := 0; x < PanelWidth; x++ {
			lit := p.on && (p.ram[y/8][x]>>(uint(y)%8)&1 == 1) != p.inverted
			c := bg
			if lit {
				c = fg
			}
			i := (y*PanelWidth + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c[0], c[1], c[2], 0xFF
		}
	}
}
