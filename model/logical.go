package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// logicalState implements the AND2/AND3/OR2/OR3/INVERT gate models (spec.md
// §4.6): treats any input value != 0 as logical true.
type logicalState struct {
	inputs []bool
	out    bool
}

func logicalInitialize(m *Model, _ float64) error {
	m.logical = &logicalState{inputs: make([]bool, len(m.Inputs))}
	m.Sigma = inf
	return nil
}

func logicalLambda(m *Model) [][]msgbus.Value {
	v := 0.0
	if m.logical.out {
		v = 1.0
	}
	return [][]msgbus.Value{{msgbus.NewValue1(v)}}
}

func logicalDeltaInt(m *Model, _ float64) {
	m.Sigma = inf
}

func logicalDeltaExt(m *Model, t, _ float64) {
	s := m.logical
	for i := range m.Inputs {
		if view := m.Inputs[i].View(); len(view) > 0 {
			s.inputs[i] = view[len(view)-1].V[0] != 0
		}
	}

	switch m.Kind {
	case KindLogicalAnd2, KindLogicalAnd3:
		s.out = true
		for _, b := range s.inputs {
			s.out = s.out && b
		}
	case KindLogicalOr2, KindLogicalOr3:
		s.out = false
		for _, b := range s.inputs {
			s.out = s.out || b
		}
	case KindLogicalInvert:
		s.out = !s.inputs[0]
	}

	m.TLast = t
	m.Sigma = 0
}

func logicalObservation(m *Model) (x, y float64) {
	if m.logical.out {
		return 1, 0
	}
	return 0, 0
}
