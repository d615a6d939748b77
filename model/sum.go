package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// sumState implements the weighted-sum algebraic models (spec.md §4.6
// sum2/sum3/sum4): y = sum(coeff[i] * input[i]), recomputed whenever any
// input changes.
type sumState struct {
	coeffs []float64
	values []float64
	y      float64
}

// WithSum attaches weighted-sum coefficients to m; len(coeffs) must equal
// the port count implied by m.Kind.
func WithSum(m *Model, coeffs []float64) *Model {
	m.sum = &sumState{
		coeffs: append([]float64(nil), coeffs...),
		values: make([]float64, len(coeffs)),
	}
	return m
}

func sumInitialize(m *Model, _ float64) error {
	sumRecompute(m.sum)
	m.Sigma = inf
	return nil
}

func sumRecompute(s *sumState) {
	var y float64
	for i, c := range s.coeffs {
		y += c * s.values[i]
	}
	s.y = y
}

func sumLambda(m *Model) [][]msgbus.Value {
	return [][]msgbus.Value{{msgbus.NewValue1(m.sum.y)}}
}

func sumDeltaInt(m *Model, _ float64) {
	m.Sigma = inf
}

func sumDeltaExt(m *Model, t, _ float64) {
	s := m.sum
	for i := range m.Inputs {
		if view := m.Inputs[i].View(); len(view) > 0 {
			s.values[i] = view[len(view)-1].V[0]
		}
	}
	sumRecompute(s)
	m.TLast = t
	m.Sigma = 0
}

func sumObservation(m *Model) (x, y float64) {
	return m.sum.y, 0
}
