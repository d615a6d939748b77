package model

import (
	"github.com/vle-forge/irritator-sub004/hsm"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

// hsmWrapperState adapts a hsm.Machine into the DEVS atomic-model contract
// (spec.md §4.6 "HSM wrapper"): external messages are delivered as hsm
// Events, and the wrapper exposes whatever the state machine's handlers
// chose to emit since the last transition.
type hsmWrapperState struct {
	machine *hsm.Machine
	root    hsm.StateID
	emit    []msgbus.Value
}

// HSMWrapperParams configures an HSM wrapper model.
type HSMWrapperParams struct {
	Machine *hsm.Machine
	Root    hsm.StateID
}

// WithHSMWrapper attaches an already-built hsm.Machine to m. The machine's
// handlers call Emit(m, value) to queue an output message for the next
// Lambda.
func WithHSMWrapper(m *Model, p HSMWrapperParams) *Model {
	m.hsmWrap = &hsmWrapperState{machine: p.Machine, root: p.Root}
	return m
}

// Emit queues v for output by the HSM wrapper model m is embedded in;
// intended to be called from inside a hsm.Handler or hsm.Action during
// dispatch on m.
func Emit(m *Model, v msgbus.Value) {
	m.hsmWrap.emit = append(m.hsmWrap.emit, v)
}

func hsmWrapperInitialize(m *Model, _ float64) error {
	m.hsmWrap.machine.Start(m.hsmWrap.root)
	m.Sigma = inf
	return nil
}

func hsmWrapperLambda(m *Model) [][]msgbus.Value {
	if len(m.hsmWrap.emit) == 0 {
		return [][]msgbus.Value{nil}
	}
	return [][]msgbus.Value{m.hsmWrap.emit}
}

func hsmWrapperDeltaInt(m *Model, t float64) {
	s := m.hsmWrap
	s.emit = s.emit[:0]
	m.TLast = t
	m.Sigma = inf
}

func hsmWrapperDeltaExt(m *Model, t, _ float64) {
	s := m.hsmWrap
	s.emit = s.emit[:0]
	if view := m.Inputs[0].View(); len(view) > 0 {
		for _, v := range view {
			s.machine.Dispatch(hsm.Event{Kind: int(v.N), Data: v})
		}
	}
	m.TLast = t
	if len(s.emit) > 0 {
		m.Sigma = 0
	} else {
		m.Sigma = inf
	}
}

// hsmWrapperDeltaCon implements the update-then-reinit ordering (SPEC_FULL
// §9): unlike the default delta_int-then-delta_ext composition every other
// kind uses, the HSM wrapper applies the pending external update first
// (dispatching the incoming message into the machine) and only then runs
// delta_int with e=0, so a parameter update arriving exactly at the
// scheduled internal time is observed by the same dispatch that re-inits,
// rather than being overwritten by an internal no-op first.
func hsmWrapperDeltaCon(m *Model, t float64) {
	s := m.hsmWrap
	hsmWrapperDeltaExt(m, t, 0)
	emitted := append([]msgbus.Value(nil), s.emit...)
	hsmWrapperDeltaInt(m, t)
	s.emit = emitted
	if len(s.emit) > 0 {
		m.Sigma = 0
	}
}

func hsmWrapperObservation(m *Model) (x, y float64) {
	return float64(m.hsmWrap.machine.Current()), 0
}
