package timer

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeripheral struct {
	mu       sync.Mutex
	period   time.Duration
	listened bool
	cleared  int
	isr      func()

	startErr error
	bindErr  error
}

func (p *fakePeripheral) Start(period time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.period = period
	return p.startErr
}

func (p *fakePeripheral) Listen() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listened = true
}

func (p *fakePeripheral) ClearInterrupt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared++
}

func (p *fakePeripheral) Bind(isr func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bindErr != nil {
		return p.bindErr
	}
	p.isr = isr
	return nil
}

func (p *fakePeripheral) fire() {
	p.mu.Lock()
	isr := p.isr
	p.mu.Unlock()
	isr()
}

func TestInitConfiguresPeripheral(t *testing.T) {
	var s Source
	hw := &fakePeripheral{}

	require.NoError(t, s.Init(hw))
	assert.Equal(t, time.Millisecond, hw.period)
	assert.True(t, hw.listened)
	assert.NotNil(t, hw.isr)
	assert.True(t, s.Initialized())
}

func TestInitTwiceFails(t *testing.T) {
	var s Source
	first := &fakePeripheral{}
	second := &fakePeripheral{}

	require.NoError(t, s.Init(first))
	err := s.Init(second)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Zero(t, second.period, "second peripheral must not be configured")
	assert.Nil(t, second.isr)

	first.fire()
	assert.Equal(t, 1, first.cleared)
	assert.Equal(t, 0, second.cleared)
}

func TestInitStartFailureLeavesSourceEmpty(t *testing.T) {
	var s Source
	bad := &fakePeripheral{startErr: errors.New("no clock")}

	err := s.Init(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timer: start")
	assert.False(t, s.Initialized())

	require.NoError(t, s.Init(&fakePeripheral{}))
}

func TestInitBindFailureLeavesSourceEmpty(t *testing.T) {
	var s Source
	err := s.Init(&fakePeripheral{bindErr: errors.New("irq busy")})
	require.Error(t, err)
	assert.False(t, s.Initialized())
}

func TestInterruptAdvancesAndAcknowledges(t *testing.T) {
	var s Source
	hw := &fakePeripheral{}
	require.NoError(t, s.Init(hw))

	for i := 0; i < 5; i++ {
		hw.fire()
	}
	assert.Equal(t, Tick(5), s.Ticks())
	assert.Equal(t, 5, hw.cleared)
}

func TestForceTickWithoutHardware(t *testing.T) {
	var s Source
	s.ForceTick()
	s.ForceTick()
	assert.Equal(t, Tick(2), s.Ticks())
}

func TestTicksWrap(t *testing.T) {
	var s Source
	s.ticks.Store(math.MaxUint32)
	s.ForceTick()
	assert.Equal(t, Tick(0), s.Ticks())
}

func TestConcurrentInterrupts(t *testing.T) {
	var s Source
	hw := &fakePeripheral{}
	require.NoError(t, s.Init(hw))

	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				hw.fire()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, Tick(1000), s.Ticks())
	assert.Equal(t, 1000, hw.cleared)
}

func TestMsToTicks(t *testing.T) {
	for _, ms := range []uint32{0, 1, 50, 100, 500, 1000, 123456, 5_000_000, math.MaxUint32} {
		assert.Equal(t, ms, MsToTicks(ms), "ms=%d", ms)
	}
}
