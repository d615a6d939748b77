package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vle-forge/irritator-sub004/hsm"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

// buildTrackingMachine returns a two-state machine where handling any event
// in stateA records the value it saw (via the closure-captured slice) and
// requests a transition back to stateA (a self-loop, so delta_con always
// has both a dispatched event and a fresh internal re-entry to observe).
func buildTrackingMachine(seen *[]float64) (*hsm.Machine, hsm.StateID) {
	const stateA hsm.StateID = 1
	m := hsm.NewMachine()
	m.AddState(stateA, hsm.Invalid, hsm.Invalid, nil, nil, func(mm *hsm.Machine, e hsm.Event) hsm.Result {
		if v, ok := e.Data.(msgbus.Value); ok {
			*seen = append(*seen, v.V[0])
		}
		return hsm.Handled()
	})
	return m, stateA
}

func TestHSMWrapperUpdateThenReinit(t *testing.T) {
	var seen []float64
	machine, root := buildTrackingMachine(&seen)

	m := New(KindHSMWrapper)
	WithHSMWrapper(m, HSMWrapperParams{Machine: machine, Root: root})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(123))

	// DeltaCon must dispatch the pending external message into the
	// machine (update) before delta_int clears the emitted-message
	// buffer (reinit) — so the handler's observation of the input value
	// happens exactly once, and is not lost to the reinit.
	m.DeltaCon(5)

	require.Equal(t, []float64{123}, seen, "external update must be applied before the internal reinit clears state")
}

func TestHSMWrapperEmitSurvivesLambda(t *testing.T) {
	m := New(KindHSMWrapper)
	machine := hsm.NewMachine()
	const stateA hsm.StateID = 1
	machine.AddState(stateA, hsm.Invalid, hsm.Invalid, nil, nil, func(mm *hsm.Machine, e hsm.Event) hsm.Result {
		Emit(m, msgbus.NewValue1(e.Data.(msgbus.Value).V[0]*2))
		return hsm.Handled()
	})
	WithHSMWrapper(m, HSMWrapperParams{Machine: machine, Root: stateA})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(21))
	m.DeltaExt(1, 1)

	out := hsmWrapperLambda(m)
	require.Len(t, out[0], 1)
	require.Equal(t, 42.0, out[0][0].V[0])
}
