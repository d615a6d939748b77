package model

import (
	"math"

	"github.com/vle-forge/irritator-sub004/msgbus"
)

// powerState implements the y = x^n algebraic model (spec.md §4.6 "power").
type powerState struct {
	exponent float64
	x        float64
	y        float64
}

// WithPower attaches the exponent to m.
func WithPower(m *Model, exponent float64) *Model {
	m.power = &powerState{exponent: exponent}
	return m
}

func powerInitialize(m *Model, _ float64) error {
	m.Sigma = inf
	return nil
}

func powerLambda(m *Model) [][]msgbus.Value {
	return [][]msgbus.Value{{msgbus.NewValue1(m.power.y)}}
}

func powerDeltaInt(m *Model, _ float64) {
	m.Sigma = inf
}

func powerDeltaExt(m *Model, t, _ float64) {
	s := m.power
	if view := m.Inputs[0].View(); len(view) > 0 {
		s.x = view[len(view)-1].V[0]
		s.y = math.Pow(s.x, s.exponent)
	}
	m.TLast = t
	m.Sigma = 0
}

func powerObservation(m *Model) (x, y float64) {
	return m.power.x, m.power.y
}
