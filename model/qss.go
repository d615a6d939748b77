package model

import "github.com/vle-forge/irritator-sub004/msgbus"

// qssState is the state shared by the QSS1/2/3 integrator kinds (spec.md
// §4.6 "QSS integrator (level 1/2/3)"): X and its derivatives as a Taylor
// polynomial, and q, the quantized polynomial one degree lower.
type qssState struct {
	level int // 1, 2, or 3
	dQ    float64
	X0    float64

	x taylorPoly
	q taylorPoly
}

// QSSParams configures a new QSS integrator.
type QSSParams struct {
	Level int // 1, 2, or 3
	X0    float64
	DQ    float64
}

// WithQSS attaches QSS integrator parameters to m.
func WithQSS(m *Model, p QSSParams) *Model {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Level > 3 {
		p.Level = 3
	}
	m.qss = &qssState{level: p.Level, dQ: correctQuantum(p.DQ), X0: p.X0}
	return m
}

func qssInitialize(m *Model, _ float64) error {
	s := m.qss
	s.dQ = correctQuantum(s.dQ)
	s.x = taylorPoly{s.X0, 0, 0, 0}
	s.q = requantize(s.x, s.level)
	m.Sigma = offsetSigma(s.x, s.q, s.dQ)
	return nil
}

func qssLambda(m *Model) [][]msgbus.Value {
	s := m.qss
	x := evalPoly(s.x, m.Sigma)
	dx := evalDeriv(s.x, m.Sigma)
	return [][]msgbus.Value{{msgbus.NewValue2(x, dx)}}
}

func qssDeltaInt(m *Model, t float64) {
	s := m.qss
	s.x = shiftPoly(s.x, m.Sigma)
	s.q = requantize(s.x, s.level)
	m.TLast = t
	m.Sigma = offsetSigma(s.x, s.q, s.dQ)
}

func qssDeltaExt(m *Model, t, e float64) {
	s := m.qss
	s.x = shiftPoly(s.x, e)
	s.q = shiftPoly(s.q, e)

	// port 1 reset-to-value: a discontinuous jump of X, e.g. the neuron
	// firing reset in a leaky-integrate-and-fire wiring. Applied before the
	// derivative update below so a reset and a fresh derivative in the same
	// bag compose.
	reset := false
	if v := latestValue(m, 1); v != nil {
		s.x[0] = v.V[0]
		reset = true
	}

	if v := latestValue(m, 0); v != nil {
		if v.N >= 1 {
			s.x[1] = v.V[0]
		}
		if s.level >= 2 && v.N >= 2 {
			s.x[2] = v.V[1] / 2
		}
		if s.level >= 3 && v.N >= 3 {
			s.x[3] = v.V[2] / 6
		}
	}

	if reset {
		s.q = requantize(s.x, s.level)
	}

	m.TLast = t
	m.Sigma = offsetSigma(s.x, s.q, s.dQ)
}

func qssObservation(m *Model, e float64) (x, y float64) {
	s := m.qss
	return evalPoly(s.x, e), evalDeriv(s.x, e)
}

// latestValue returns the most recently queued message on input port i, or
// nil if the queue is empty.
func latestValue(m *Model, i int) *msgbus.Value {
	view := m.Inputs[i].View()
	if len(view) == 0 {
		return nil
	}
	return &view[len(view)-1]
}
