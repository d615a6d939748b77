package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// constantState implements the constant source model (spec.md §4.6
// "constant"): emits a single fixed value at t=0 and never fires again.
type constantState struct {
	value float64
	fired bool
}

// WithConstant attaches the emitted value to m.
func WithConstant(m *Model, value float64) *Model {
	m.constant = &constantState{value: value}
	return m
}

func constantInitialize(m *Model, _ float64) error {
	m.Sigma = 0
	return nil
}

func constantLambda(m *Model) [][]msgbus.Value {
	return [][]msgbus.Value{{msgbus.NewValue1(m.constant.value)}}
}

func constantDeltaInt(m *Model, _ float64) {
	m.constant.fired = true
	m.Sigma = inf
}

func constantObservation(m *Model) (x, y float64) {
	return m.constant.value, 0
}
