package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhiloxIsDeterministic(t *testing.T) {
	a := NewPhilox(42, 7)
	b := NewPhilox(42, 7)

	for step := uint64(0); step < 100; step++ {
		hi1, lo1 := a.Next(step)
		hi2, lo2 := b.Next(step)
		require.Equal(t, hi1, hi2)
		require.Equal(t, lo1, lo2)
	}
}

func TestPhiloxDiffersBySeedAndIndex(t *testing.T) {
	a := NewPhilox(1, 0)
	b := NewPhilox(2, 0)
	c := NewPhilox(1, 1)

	hiA, loA := a.Next(0)
	hiB, loB := b.Next(0)
	hiC, loC := c.Next(0)

	require.False(t, hiA == hiB && loA == loB)
	require.False(t, hiA == hiC && loA == loC)
}

func TestPhiloxFloat64InUnitRange(t *testing.T) {
	p := NewPhilox(99, 3)
	for step := uint64(0); step < 1000; step++ {
		f := p.Float64(step)
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}
