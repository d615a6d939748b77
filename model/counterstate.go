package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// counterState implements both the counter and accumulator models (spec.md
// §4.6): counter increments once per input event; accumulator sums the
// incoming values. Both share the same transition shape, differing only in
// how they fold an incoming message into their running total.
type counterState struct {
	total float64
}

func counterInitialize(m *Model, _ float64) error {
	m.counter = &counterState{}
	m.Sigma = inf
	return nil
}

func counterLambda(m *Model) [][]msgbus.Value {
	return [][]msgbus.Value{{msgbus.NewValue1(m.counter.total)}}
}

func counterDeltaInt(m *Model, _ float64) {
	m.Sigma = inf
}

func counterDeltaExt(m *Model, t, _ float64) {
	s := m.counter
	view := m.Inputs[0].View()
	switch m.Kind {
	case KindCounter:
		s.total += float64(len(view))
	case KindAccumulator:
		for _, v := range view {
			s.total += v.V[0]
		}
	}
	m.TLast = t
	m.Sigma = 0
}

func counterObservation(m *Model) (x, y float64) {
	return m.counter.total, 0
}
