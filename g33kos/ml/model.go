package ml

import "fmt"

// Layer is a dense layer: out = act(W*in + b).
type Layer struct {
	Rows, Cols int
	Weights    []Fixed
	Bias       []Fixed
	ReLU       bool
}

func (l *Layer) forward(in, out []Fixed) error {
	if err := MatVec(l.Weights, in, out, l.Rows, l.Cols); err != nil {
		return err
	}
	if len(l.Bias) != 0 && len(l.Bias) != l.Rows {
		return fmt.Errorf("%w: bias %d for %d rows", ErrShape, len(l.Bias), l.Rows)
	}
	for i := range out {
		if len(l.Bias) != 0 {
			out[i] = out[i].Add(l.Bias[i])
		}
		if l.ReLU && out[i] < 0 {
			out[i] = 0
		}
	}
	return nil
}

// Model is a stack of dense layers with preallocated activations, so Run
// does not allocate.
type Model struct {
	layers []Layer
	acts   [][]Fixed
}

// NewModel checks that consecutive layers fit together.
func NewModel(layers ...Layer) (*Model, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrShape)
	}
	m := &Model{layers: layers, acts: make([][]Fixed, len(layers))}
	for i, l := range layers {
		if len(l.Weights) != l.Rows*l.Cols {
			return nil, fmt.Errorf("%w: layer %d has %d weights for %dx%d", ErrShape, i, len(l.Weights), l.Rows, l.Cols)
		}
		if i > 0 && l.Cols != layers[i-1].Rows {
			return nil, fmt.Errorf("%w: layer %d takes %d inputs, layer %d gives %d", ErrShape, i, l.Cols, i-1, layers[i-1].Rows)
		}
		m.acts[i] = make([]Fixed, l.Rows)
	}
	return m, nil
}

func (m *Model) Inputs() int  { return m.layers[0].Cols }
func (m *Model) Outputs() int { return m.layers[len(m.layers)-1].Rows }

// Run evaluates the model. The returned slice is reused by the next call.
func (m *Model) Run(in []Fixed) ([]Fixed, error) {
	x := in
	for i := range m.layers {
		if err := m.layers[i].forward(x, m.acts[i]); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		x = m.acts[i]
	}
	return x, nil
}

// Classes names the outputs of the built-in model.
var Classes = []string{"idle", "motion", "alert"}

func fixedSlice(vs ...float64) []Fixed {
	out := make([]Fixed, len(vs))
	for i, v := range vs {
		out[i] = FromFloat(v)
	}
	return out
}

// Builtin returns a 4-4-3 sensor classifier over (level, delta, variance,
// temperature) inputs.
func Builtin() *Model {
	m, err := NewModel(
		Layer{
			Rows: 4, Cols: 4, ReLU: true,
			Weights: fixedSlice(
				0.50, 0.25, 0.00, -0.10,
				-0.30, 0.80, 0.40, 0.00,
				0.00, -0.20, 1.10, 0.15,
				0.20, 0.20, 0.20, 0.20,
			),
			Bias: fixedSlice(0.05, -0.10, -0.20, 0.00),
		},
		Layer{
			Rows: 3, Cols: 4,
			Weights: fixedSlice(
				1.00, -0.50, -0.75, 0.30,
				-0.40, 1.20, 0.10, -0.20,
				-0.60, 0.20, 1.40, 0.10,
			),
			Bias: fixedSlice(0.25, 0.00, -0.15),
		},
	)
	if err != nil {
		panic(err)
	}
	return m
}
