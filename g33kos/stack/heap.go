package stack

import (
	"errors"
	"sort"
)

// DefaultHeapSize is the size of the kernel heap arena.
const DefaultHeapSize = 64 * 1024

// Align is the alignment of every block handed out by a Heap.
const Align = 16

var (
	ErrOutOfMemory = errors.New("out of memory")
	ErrInvalidSize = errors.New("invalid allocation size")
	ErrBadFree     = errors.New("free of unallocated block")
)

type span struct {
	off int
	n   int
}

// Heap is a fixed byte arena with a first-fit free list.
//
// It is not safe for concurrent use; only the mainline allocates.
type Heap struct {
	mem  []byte
	free []span      // sorted by offset, never adjacent
	used map[int]int // offset -> block size
}

// NewHeap returns a heap over a fresh arena of size bytes.
func NewHeap(size int) *Heap {
	size &^= Align - 1
	h := &Heap{
		mem:  make([]byte, size),
		used: make(map[int]int),
	}
	if size > 0 {
		h.free = []span{{off: 0, n: size}}
	}
	return h
}

// Alloc reserves n bytes (rounded up to Align) and returns the block offset.
func (h *Heap) Alloc(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidSize
	}
	n = (n + Align - 1) &^ (Align - 1)
	if n <= 0 {
		return 0, ErrInvalidSize
	}

	for i := range h.free {
		sp := &h.free[i]
		if sp.n < n {
			continue
		}
		off := sp.off
		if sp.n == n {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			sp.off += n
			sp.n -= n
		}
		h.used[off] = n
		return off, nil
	}
	return 0, ErrOutOfMemory
}

// Free returns the block at off to the heap.
func (h *Heap) Free(off int) error {
	n, ok := h.used[off]
	if !ok {
		return ErrBadFree
	}
	delete(h.used, off)

	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].off > off })
	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = span{off: off, n: n}

	// Merge with the right neighbour, then the left.
	if i+1 < len(h.free) && h.free[i].off+h.free[i].n == h.free[i+1].off {
		h.free[i].n += h.free[i+1].n
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].off+h.free[i-1].n == h.free[i].off {
		h.free[i-1].n += h.free[i].n
		h.free = append(h.free[:i], h.free[i+1:]...)
	}
	return nil
}

// block returns the bytes of an allocated block.
func (h *Heap) block(off, n int) []byte {
	return h.mem[off : off+n]
}

// HeapStats is a snapshot of heap usage.
type HeapStats struct {
	Size         int
	Used         int
	Free         int
	LargestFree  int
	Allocations  int
	FreeSegments int
}

// Stats reports current heap usage.
func (h *Heap) Stats() HeapStats {
	st := HeapStats{Size: len(h.mem), Allocations: len(h.used), FreeSegments: len(h.free)}
	for _, sp := range h.free {
		st.Free += sp.n
		if sp.n > st.LargestFree {
			st.LargestFree = sp.n
		}
	}
	st.Used = st.Size - st.Free
	return st
}
