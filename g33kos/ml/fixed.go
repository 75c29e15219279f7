// Package ml runs a small dense network in Q16.16 fixed point, for cores
// without an FPU.
package ml

import (
	"errors"
	"fmt"
)

// Fixed is a Q16.16 number: 16 integer bits (including sign) and 16 fractional bits.
type Fixed int32

const (
	fracBits = 16
	One      = Fixed(1 << fracBits)
)

var ErrShape = errors.New("ml: shape mismatch")

func FromInt(v int16) Fixed { return Fixed(int32(v) << fracBits) }

// FromFloat truncates toward zero.
func FromFloat(v float64) Fixed { return Fixed(int32(v * (1 << fracBits))) }

func (f Fixed) Float() float64 { return float64(f) / (1 << fracBits) }

// Add wraps on overflow.
func (f Fixed) Add(g Fixed) Fixed { return Fixed(int32(f) + int32(g)) }

// Mul rounds toward negative infinity.
func (f Fixed) Mul(g Fixed) Fixed { return Fixed((int64(f) * int64(g)) >> fracBits) }

func (f Fixed) String() string { return fmt.Sprintf("%.4f", f.Float()) }

// MatVec computes out = w * in for a rows x cols row-major weight matrix.
func MatVec(w, in, out []Fixed, rows, cols int) error {
	if rows < 0 || cols < 0 || len(w) != rows*cols || len(in) != cols || len(out) != rows {
		return fmt.Errorf("%w: %dx%d weights (len %d), input %d, output %d", ErrShape, rows, cols, len(w), len(in), len(out))
	}
	for i := 0; i < rows; i++ {
		var sum Fixed
		row := w[i*cols : (i+1)*cols]
		for j, x := range in {
			sum = sum.Add(row[j].Mul(x))
		}
		out[i] = sum
	}
	return nil
}

// Argmax returns the index of the largest value, the first on ties. It returns -1 for an empty slice.
func Argmax(v []Fixed) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}
