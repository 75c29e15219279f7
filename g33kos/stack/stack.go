// Package stack carves guarded task stacks out of a kernel heap.
//
// Each stack is bracketed by a 4-byte canary at both ends. Verify rereads
// both canaries; a mismatch means something wrote past the usable region.
// This detects overflow after the fact, it does not prevent it.
package stack

import (
	"encoding/binary"
	"errors"
	"io"
)

// DefaultSize is the stack size for tasks that do not ask for one.
const DefaultSize = 4 * 1024

// Canary is the guard pattern written at both ends of a stack.
const Canary uint32 = 0xDEADBEEF

// GuardBytes is the width of each guard.
const GuardBytes = 4

// ErrOutOfBounds is returned by ReadAt/WriteAt outside the usable region.
var ErrOutOfBounds = errors.New("stack access out of bounds")

// AllocationSize returns the bytes a stack of size consumes, guards included.
func AllocationSize(size int) int {
	return size + GuardBytes*2
}

// Stack is a guarded block owned by one task slot.
type Stack struct {
	heap *Heap
	off  int
	size int

	released bool
}

// Allocate carves a zeroed stack of size usable bytes from h and writes both guards.
func (h *Heap) Allocate(size int) (*Stack, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	off, err := h.Alloc(AllocationSize(size))
	if err != nil {
		return nil, err
	}

	b := h.block(off, AllocationSize(size))
	clear(b)
	binary.LittleEndian.PutUint32(b[:GuardBytes], Canary)
	binary.LittleEndian.PutUint32(b[GuardBytes+size:], Canary)

	return &Stack{heap: h, off: off, size: size}, nil
}

// Len returns the usable size in bytes.
func (s *Stack) Len() int { return s.size }

// Verify reports whether both guards still hold the canary.
func (s *Stack) Verify() bool {
	if s == nil || s.released {
		return false
	}
	mem := s.heap.mem
	lo := s.off
	hi := s.off + GuardBytes + s.size
	return binary.LittleEndian.Uint32(mem[lo:lo+GuardBytes]) == Canary &&
		binary.LittleEndian.Uint32(mem[hi:hi+GuardBytes]) == Canary
}

// Frame returns the usable region.
//
// The slice aliases the heap arena. Its capacity stops at the end of the
// upper guard: reslicing past len(Frame()) lands on this stack's own guard
// and never on a neighbouring block.
func (s *Stack) Frame() []byte {
	lo := s.off + GuardBytes
	hi := lo + s.size
	return s.heap.mem[lo:hi:hi+GuardBytes]
}

// ReadAt implements io.ReaderAt over the usable region.
func (s *Stack) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(s.size) {
		return 0, ErrOutOfBounds
	}
	n := copy(p, s.Frame()[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt over the usable region. Writes that would
// cross the end are rejected whole.
func (s *Stack) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(s.size) {
		return 0, ErrOutOfBounds
	}
	return copy(s.Frame()[off:], p), nil
}

// Release returns the block, guards included, to the heap. Only the first
// call has effect; later calls return nil. An error means the heap no longer
// knew the block.
func (s *Stack) Release() error {
	if s == nil || s.released {
		return nil
	}
	s.released = true
	return s.heap.Free(s.off)
}

// Released reports whether Release has been called.
func (s *Stack) Released() bool { return s.released }
