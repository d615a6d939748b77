package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// crossState implements the threshold-crossing detector (spec.md §4.6
// "cross"): watches a signal and its derivative against a threshold and
// routes downstream on whichever side is currently active.
type crossState struct {
	threshold float64
	value     float64
	slope     float64
	detectUp  bool // spec.md §4.6 "detect_up": only an up-going crossing fires when true, only a down-going crossing fires when false
	up        bool // true once value has crossed to >= threshold
	fresh     bool
}

// WithCross attaches a threshold and crossing direction to m.
func WithCross(m *Model, threshold float64, detectUp bool) *Model {
	m.cross = &crossState{threshold: threshold, detectUp: detectUp}
	return m
}

func crossInitialize(m *Model, _ float64) error {
	m.Sigma = inf
	return nil
}

func crossLambda(m *Model) [][]msgbus.Value {
	s := m.cross
	v := msgbus.NewValue1(s.value)
	if s.up {
		return [][]msgbus.Value{{v}, nil}
	}
	return [][]msgbus.Value{nil, {v}}
}

func crossDeltaInt(m *Model, _ float64) {
	m.Sigma = inf
	m.cross.fresh = false
}

func crossDeltaExt(m *Model, t, _ float64) {
	s := m.cross
	if view := m.Inputs[0].View(); len(view) > 0 {
		s.threshold = view[len(view)-1].V[0]
	}
	if view := m.Inputs[1].View(); len(view) > 0 {
		s.value = view[len(view)-1].V[0]
	}
	if view := m.Inputs[2].View(); len(view) > 0 {
		s.slope = view[len(view)-1].V[0]
	}

	wasUp := s.up
	s.up = s.value >= s.threshold
	m.TLast = t

	crossed := s.up != wasUp
	detectedDirection := crossed && s.up == s.detectUp
	if detectedDirection || !s.fresh {
		s.fresh = true
		m.Sigma = 0
	} else {
		m.Sigma = inf
	}
}

func crossObservation(m *Model) (x, y float64) {
	s := m.cross
	if s.up {
		return 1, s.value
	}
	return 0, s.value
}
