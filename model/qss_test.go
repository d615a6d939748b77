package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vle-forge/irritator-sub004/msgbus"
)

func TestQSS1IntegratorConstantDerivative(t *testing.T) {
	m := New(KindQSS1Integrator)
	WithQSS(m, QSSParams{Level: 1, X0: 0, DQ: 0.1})
	require.NoError(t, m.Initialize(0))

	// With no external input the internal derivative is 0, so sigma stays
	// infinite and nothing ever fires.
	require.True(t, math.IsInf(m.Sigma, 1))
}

func TestQSS1IntegratorTracksLinearRamp(t *testing.T) {
	m := New(KindQSS1Integrator)
	WithQSS(m, QSSParams{Level: 1, X0: 0, DQ: 0.1})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(2)) // dx/dt = 2
	m.DeltaExt(0, 0)

	require.InDelta(t, 0.05, m.Sigma, 1e-9) // dQ / |dx| = 0.1/2

	x, _ := qssObservation(m, m.Sigma)
	require.InDelta(t, 0.1, x, 1e-9)
}

func TestQSS2ReducesToClosedFormAfterInternal(t *testing.T) {
	m := New(KindQSS2Integrator)
	WithQSS(m, QSSParams{Level: 2, X0: 0, DQ: 0.01})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue2(0, 4)) // d2x/dt2 = 4
	m.DeltaExt(0, 0)
	qssDeltaInt(m, m.Sigma)

	// After the internal transition the offset poly has only its
	// level-order term nonzero, so sigma collapses to the QSS2 closed
	// form sqrt(dQ / |half-second-derivative|).
	want := math.Sqrt(0.01 / 2)
	require.InDelta(t, want, m.Sigma, 1e-6)
}

func TestCorrectQuantumFallsBackOnInvalid(t *testing.T) {
	require.Equal(t, 1e-3, correctQuantum(0))
	require.Equal(t, 1e-3, correctQuantum(-1))
	require.Equal(t, 1e-3, correctQuantum(math.NaN()))
	require.Equal(t, 1e-3, correctQuantum(math.Inf(1)))
	require.Equal(t, 0.5, correctQuantum(0.5))
}

func TestClampSigmaNeverNegativeOrNaN(t *testing.T) {
	require.Equal(t, 0.0, clampSigma(-1))
	require.Equal(t, 0.0, clampSigma(math.NaN()))
	require.Equal(t, 2.0, clampSigma(2))
}
