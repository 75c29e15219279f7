package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFixedArithmetic(t *testing.T) {
	cases := []struct {
		name string
		got  Fixed
		want float64
	}{
		{"from int", FromInt(3), 3},
		{"negative int", FromInt(-2), -2},
		{"half", FromFloat(0.5), 0.5},
		{"add", FromFloat(1.25).Add(FromFloat(-0.75)), 0.5},
		{"mul", FromFloat(1.5).Mul(FromFloat(-2)), -3},
		{"mul fractions", FromFloat(0.25).Mul(FromFloat(0.5)), 0.125},
	}
	for _, tc := range cases {
		if got := tc.got.Float(); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
	assert.Equal(t, "1.5000", FromFloat(1.5).String())
	assert.Equal(t, One, FromInt(1))
}

func TestAddWraps(t *testing.T) {
	max := Fixed(math.MaxInt32)
	assert.Equal(t, Fixed(math.MinInt32), max.Add(1))
}

// Weights k/256 and inputs m/16 multiply to exact Q16.16 values, so the
// fixed-point result must equal the float reference exactly.
func TestMatVecMatchesFloat(t *testing.T) {
	const rows, cols = 3, 4
	wf := []float64{
		0.5, -0.25, 1, 0.125,
		-1.5, 0.75, 0, 2,
		0.0625, 0.0625, -0.5, -3,
	}
	xf := []float64{1, -0.5, 2.25, 0.0625}

	ref := mat.NewVecDense(rows, nil)
	ref.MulVec(mat.NewDense(rows, cols, wf), mat.NewVecDense(cols, xf))

	out := make([]Fixed, rows)
	require.NoError(t, MatVec(fixedSlice(wf...), fixedSlice(xf...), out, rows, cols))
	for i := 0; i < rows; i++ {
		assert.Equal(t, ref.AtVec(i), out[i].Float(), "row %d", i)
	}
}

func TestMatVecShape(t *testing.T) {
	out := make([]Fixed, 2)
	err := MatVec(make([]Fixed, 5), make([]Fixed, 3), out, 2, 3)
	assert.ErrorIs(t, err, ErrShape)

	err = MatVec(make([]Fixed, 6), make([]Fixed, 2), out, 2, 3)
	assert.ErrorIs(t, err, ErrShape)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, -1, Argmax(nil))
	assert.Equal(t, 1, Argmax(fixedSlice(0.1, 0.9, 0.9, -1)))
	assert.Equal(t, 0, Argmax(fixedSlice(-0.5)))
}

func reference(m *Model, x []float64) *mat.VecDense {
	v := mat.NewVecDense(len(x), x)
	for _, l := range m.layers {
		w := make([]float64, len(l.Weights))
		for i, f := range l.Weights {
			w[i] = f.Float()
		}
		next := mat.NewVecDense(l.Rows, nil)
		next.MulVec(mat.NewDense(l.Rows, l.Cols, w), v)
		for i, b := range l.Bias {
			next.SetVec(i, next.AtVec(i)+b.Float())
		}
		if l.ReLU {
			for i := 0; i < l.Rows; i++ {
				next.SetVec(i, math.Max(0, next.AtVec(i)))
			}
		}
		v = next
	}
	return v
}

func TestBuiltinMatchesFloatReference(t *testing.T) {
	m := Builtin()
	require.Equal(t, 4, m.Inputs())
	require.Equal(t, len(Classes), m.Outputs())

	samples := [][]float64{
		{0, 0, 0, 0.5},
		{0.9, 0.1, 0.05, 0.4},
		{0.2, 0.9, 0.3, 0.5},
		{0.1, 0.2, 1.0, 0.6},
	}
	for _, x := range samples {
		out, err := m.Run(fixedSlice(x...))
		require.NoError(t, err)
		ref := reference(m, x)

		for i := range out {
			assert.InDelta(t, ref.AtVec(i), out[i].Float(), 1e-3, "sample %v output %d", x, i)
		}
		// Same class unless the float scores tie within fixed-point error.
		best := 0
		for i := 1; i < ref.Len(); i++ {
			if ref.AtVec(i) > ref.AtVec(best) {
				best = i
			}
		}
		assert.Equal(t, best, Argmax(out), "sample %v", x)
	}
}

func TestRunInputShape(t *testing.T) {
	_, err := Builtin().Run(make([]Fixed, 3))
	assert.ErrorIs(t, err, ErrShape)
}

func TestNewModelRejectsMismatch(t *testing.T) {
	_, err := NewModel()
	assert.ErrorIs(t, err, ErrShape)

	_, err = NewModel(
		Layer{Rows: 2, Cols: 2, Weights: make([]Fixed, 4)},
		Layer{Rows: 1, Cols: 3, Weights: make([]Fixed, 3)},
	)
	assert.ErrorIs(t, err, ErrShape)

	_, err = NewModel(Layer{Rows: 2, Cols: 2, Weights: make([]Fixed, 3)})
	assert.ErrorIs(t, err, ErrShape)
}
