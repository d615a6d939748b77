package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// filterState implements the clip-to-range model (spec.md §4.6 "filter"):
// clamps the input to [lower, upper] and emits a reset event on whichever
// output port fires when the clamp boundary is newly engaged.
type filterState struct {
	lower, upper float64
	value        float64
	clampedUp    bool
	clampedDown  bool
	pendingUp    bool
	pendingDown  bool
}

// WithFilter attaches the clip bounds to m.
func WithFilter(m *Model, lower, upper float64) *Model {
	m.filter = &filterState{lower: lower, upper: upper}
	return m
}

func filterInitialize(m *Model, _ float64) error {
	m.Sigma = inf
	return nil
}

func filterLambda(m *Model) [][]msgbus.Value {
	s := m.filter
	var up, down []msgbus.Value
	if s.pendingUp {
		up = []msgbus.Value{msgbus.NewValue1(s.value)}
	}
	if s.pendingDown {
		down = []msgbus.Value{msgbus.NewValue1(s.value)}
	}
	return [][]msgbus.Value{up, down}
}

func filterDeltaInt(m *Model, _ float64) {
	m.filter.pendingUp = false
	m.filter.pendingDown = false
	m.Sigma = inf
}

func filterDeltaExt(m *Model, t, _ float64) {
	s := m.filter
	if view := m.Inputs[0].View(); len(view) > 0 {
		raw := view[len(view)-1].V[0]
		wasUp, wasDown := s.clampedUp, s.clampedDown
		switch {
		case raw >= s.upper:
			s.value, s.clampedUp, s.clampedDown = s.upper, true, false
		case raw <= s.lower:
			s.value, s.clampedUp, s.clampedDown = s.lower, false, true
		default:
			s.value, s.clampedUp, s.clampedDown = raw, false, false
		}
		s.pendingUp = s.clampedUp && !wasUp
		s.pendingDown = s.clampedDown && !wasDown
	}
	m.TLast = t
	if s.pendingUp || s.pendingDown {
		m.Sigma = 0
	} else {
		m.Sigma = inf
	}
}

func filterObservation(m *Model) (x, y float64) {
	return m.filter.value, 0
}
