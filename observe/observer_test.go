package observe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObserverLinearizesAtFixedStep(t *testing.T) {
	o := NewObserver(16, 16, 1.0)
	o.Push(0, 0, 0)
	o.Push(2, 2, 0) // linear ramp from (0,0) to (2,2)

	lin := o.Linearized.ReadOnly().Samples
	require.Len(t, lin, 3) // stamps at t=0, t=1, t=2

	require.Equal(t, 0.0, lin[0].T)
	require.Equal(t, 1.0, lin[1].T)
	require.InDelta(t, 1.0, lin[1].X, 1e-9)
	require.Equal(t, 2.0, lin[2].T)
	require.InDelta(t, 2.0, lin[2].X, 1e-9)
}

func TestObserverClearResetsInterpolationState(t *testing.T) {
	o := NewObserver(16, 16, 1.0)
	o.Push(0, 0, 0)
	o.Push(5, 5, 0)
	o.Clear()

	require.Equal(t, 0, o.Raw.Len())
	require.Equal(t, 0, o.Linearized.Len())

	o.Push(10, 1, 1)
	require.Equal(t, 1, o.Linearized.Len())
}

func TestRegistryAddGetRemove(t *testing.T) {
	reg := NewRegistry(4)
	h, err := reg.Add(8, 8, 0.5)
	require.NoError(t, err)

	obs, ok := reg.Get(h)
	require.True(t, ok)
	require.NotNil(t, obs)

	reg.Remove(h)
	_, ok = reg.Get(h)
	require.False(t, ok)
}
