package observe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawRingEvictsOldestWhenFull(t *testing.T) {
	r := NewRawRing(2) // rounds up to power of two, cap stays 2
	r.Push(Sample{T: 1})
	r.Push(Sample{T: 2})
	r.Push(Sample{T: 3})

	require.Equal(t, 2, r.Len())
	require.Equal(t, 2.0, r.Get(0).T)
	require.Equal(t, 3.0, r.Get(1).T)
}

func TestRawRingCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := NewRawRing(3)
	require.Equal(t, 4, r.Cap())
}

func TestRawRingReadOnlySnapshot(t *testing.T) {
	r := NewRawRing(8)
	r.Push(Sample{T: 1, X: 10})
	r.Push(Sample{T: 2, X: 20})

	v := r.ReadOnly()
	require.Len(t, v.Samples, 2)
	require.Equal(t, 20.0, v.Samples[1].X)
}

func TestRawRingClearBumpsVersion(t *testing.T) {
	r := NewRawRing(4)
	r.Push(Sample{T: 1})
	before := r.ReadOnly().Version
	r.Clear()
	after := r.ReadOnly().Version
	require.NotEqual(t, before, after)
	require.Equal(t, 0, r.Len())
}
