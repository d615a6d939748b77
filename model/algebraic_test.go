package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

func TestPowerRecomputesOnEachInput(t *testing.T) {
	m := New(KindPower)
	WithPower(m, 3)
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(2))
	m.DeltaExt(1, 1)

	require.Equal(t, 0.0, m.Sigma)
	x, y := powerObservation(m)
	require.Equal(t, 2.0, x)
	require.Equal(t, 8.0, y)
}

func TestTimeFuncSquareWaveTogglesAtHalfPeriod(t *testing.T) {
	m := New(KindTimeFunc)
	WithTimeFunc(m, TimeFuncParams{Shape: TimeFuncSquareWave, Period: 2, Amplitude: 5})
	require.NoError(t, m.Initialize(0))

	x, _ := timeFuncObservation(m)
	require.Equal(t, 5.0, x) // t=0 is in the first half of the period

	timeFuncDeltaInt(m, 1) // halfway through the period
	x, _ = timeFuncObservation(m)
	require.Equal(t, -5.0, x)

	require.Equal(t, 2.0, m.Sigma) // rescheduled a full period out
}

// fakeDispatcher is a deterministic stand-in for the source registry,
// returning successive values from a fixed table.
type fakeDispatcher struct {
	values []float64
	pos    int
}

func (f *fakeDispatcher) Dispatch(id.Handle) (float64, error) {
	v := f.values[f.pos%len(f.values)]
	f.pos++
	return v, nil
}

func TestGeneratorDrawsInterArrivalDelayAndEmitsFixedValue(t *testing.T) {
	disp := &fakeDispatcher{values: []float64{1.5, 2.5}}
	m := New(KindGenerator)
	WithGenerator(m, GeneratorParams{Source: disp, TASource: 1, FixedValue: 42})
	require.NoError(t, m.Initialize(0))

	require.Equal(t, 1.5, m.Sigma)

	out := generatorLambda(m)
	require.Equal(t, 42.0, out[0][0].V[0])

	generatorDeltaInt(m, 1.5)
	require.Equal(t, 2.5, m.Sigma)
}

func TestQueueFIFOReleasesAfterFixedDelay(t *testing.T) {
	m := New(KindQueueFIFO)
	WithQueue(m, QueueParams{FixedDelay: 3})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(9))
	m.DeltaExt(0, 0)

	require.Equal(t, 3.0, m.Sigma)

	queueDeltaInt(m, 3)
	out := queueLambda(m)
	require.Equal(t, []msgbus.Value{msgbus.NewValue1(9)}, out[0])
	require.Equal(t, 0, len(m.queue.pending))
}

func TestQueuePrioritySortsPendingByPriority(t *testing.T) {
	m := New(KindQueuePriority)
	WithQueue(m, QueueParams{FixedDelay: 1})
	require.NoError(t, m.Initialize(0))

	// value and priority are carried as independent scalars: the delivered
	// value (V[0]) must travel with its priority (V[1]), not collapse to it.
	m.Inputs[0].Push(msgbus.NewValue2(100, 5))
	m.Inputs[0].Push(msgbus.NewValue2(200, 1))
	m.Inputs[0].Push(msgbus.NewValue2(300, 3))
	m.DeltaExt(0, 0)

	require.Equal(t, []float64{1, 3, 5}, []float64{
		m.queue.pending[0].priority,
		m.queue.pending[1].priority,
		m.queue.pending[2].priority,
	})
	require.Equal(t, []float64{200, 300, 100}, []float64{
		m.queue.pending[0].value,
		m.queue.pending[1].value,
		m.queue.pending[2].value,
	})
}

func TestQueueFIFOIgnoresSecondScalarAsPriority(t *testing.T) {
	m := New(KindQueueFIFO)
	WithQueue(m, QueueParams{FixedDelay: 1})
	require.NoError(t, m.Initialize(0))

	m.Inputs[0].Push(msgbus.NewValue1(7))
	m.DeltaExt(0, 0)

	require.Len(t, m.queue.pending, 1)
	require.Equal(t, 7.0, m.queue.pending[0].value)
	require.Equal(t, 7.0, m.queue.pending[0].priority) // single-scalar falls back to V[0]
}
