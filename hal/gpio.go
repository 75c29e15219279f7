package hal

import "sync"

// Button identifies one of the front-panel buttons.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonSelect

	// NumButtons is the number of buttons.
	NumButtons
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "UP"
	case ButtonDown:
		return "DOWN"
	case ButtonSelect:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// InputPin is a digital input. Buttons are wired active-low with pull-ups,
// so Get returns false while a button is held.
type InputPin interface {
	Name() string
	Get() bool
}

// virtualPin is an input whose level is driven by the simulator.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	level bool
}

func newPullUpPin(name string) *virtualPin {
	return &virtualPin{name: name, level: true}
}

func (p *virtualPin) Name() string { return p.name }

func (p *virtualPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *virtualPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}
