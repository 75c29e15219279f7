package stack

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateVerifies(t *testing.T) {
	h := NewHeap(DefaultHeapSize)

	s, err := h.Allocate(DefaultSize)
	require.NoError(t, err)
	assert.True(t, s.Verify())
	assert.Equal(t, DefaultSize, s.Len())

	b := h.block(s.off, AllocationSize(DefaultSize))
	assert.Equal(t, Canary, binary.LittleEndian.Uint32(b[:GuardBytes]))
	assert.Equal(t, Canary, binary.LittleEndian.Uint32(b[len(b)-GuardBytes:]))
}

func TestVerifyDetectsOverflow(t *testing.T) {
	h := NewHeap(DefaultHeapSize)
	s, err := h.Allocate(128)
	require.NoError(t, err)

	// One byte past the usable region through a careless reslice.
	f := s.Frame()
	f = f[:len(f)+1]
	f[len(f)-1] = 0x00

	assert.False(t, s.Verify())
}

func TestVerifyDetectsUnderflow(t *testing.T) {
	h := NewHeap(DefaultHeapSize)
	s, err := h.Allocate(128)
	require.NoError(t, err)

	h.mem[s.off+GuardBytes-1] ^= 0xFF

	assert.False(t, s.Verify())
}

func TestVerifyIgnoresStackContents(t *testing.T) {
	h := NewHeap(DefaultHeapSize)
	s, err := h.Allocate(64)
	require.NoError(t, err)

	f := s.Frame()
	for i := range f {
		f[i] = 0xA5
	}
	assert.True(t, s.Verify())
}

func TestReadWriteAtBounds(t *testing.T) {
	h := NewHeap(1024)
	s, err := h.Allocate(16)
	require.NoError(t, err)

	n, err := s.WriteAt([]byte("hello"), 11)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = s.WriteAt([]byte("hello"), 12)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.WriteAt([]byte("x"), -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.True(t, s.Verify(), "rejected writes must not reach the guards")

	buf := make([]byte, 8)
	n, err = s.ReadAt(buf, 11)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = s.ReadAt(buf, 17)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestAllocateOutOfMemory(t *testing.T) {
	h := NewHeap(1024)
	_, err := h.Allocate(DefaultSize)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 0, h.Stats().Used)
}

func TestReleaseOnce(t *testing.T) {
	h := NewHeap(1024)
	s, err := h.Allocate(100)
	require.NoError(t, err)
	assert.Equal(t, 112, h.Stats().Used)

	require.NoError(t, s.Release())
	assert.True(t, s.Released())
	assert.Equal(t, 0, h.Stats().Used)

	other, err := h.Allocate(100)
	require.NoError(t, err)
	assert.NoError(t, s.Release())
	assert.True(t, other.Verify(), "second release must not free the reused block")
	assert.Equal(t, 112, h.Stats().Used)
}

func TestAllocateZeroes(t *testing.T) {
	h := NewHeap(1024)
	s, _ := h.Allocate(32)
	f := s.Frame()
	for i := range f {
		f[i] = 0xFF
	}
	s.Release()

	s2, err := h.Allocate(32)
	require.NoError(t, err)
	for i, b := range s2.Frame() {
		if b != 0 {
			t.Fatalf("Frame()[%d] = %#x, want 0", i, b)
		}
	}
}

func TestFrameCannotReachNeighbour(t *testing.T) {
	h := NewHeap(1024)
	a, err := h.Allocate(64)
	require.NoError(t, err)
	b, err := h.Allocate(64)
	require.NoError(t, err)

	f := a.Frame()
	assert.Equal(t, a.Len()+GuardBytes, cap(f))

	f = f[:cap(f)]
	for i := range f {
		f[i] = 0xAA
	}
	assert.False(t, a.Verify(), "the overflow lands on a's own guard")
	assert.True(t, b.Verify())
	for i, v := range b.Frame() {
		if v != 0 {
			t.Fatalf("b.Frame()[%d] = %#x, want 0", i, v)
		}
	}
}

func TestReleaseReportsUnknownBlock(t *testing.T) {
	h := NewHeap(1024)
	s, err := h.Allocate(32)
	require.NoError(t, err)

	// The block is freed behind the stack's back.
	require.NoError(t, h.Free(s.off))

	assert.ErrorIs(t, s.Release(), ErrBadFree)
	assert.True(t, s.Released())
	assert.NoError(t, s.Release())
}
