package id

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaAllocFreeReuseGeneration(t *testing.T) {
	a := NewArena[int](4)

	h1, p1, err := a.Alloc()
	require.NoError(t, err)
	*p1 = 42
	require.Equal(t, 1, a.Len())

	a.Free(h1)
	require.Equal(t, 0, a.Len())

	h2, p2, err := a.Alloc()
	require.NoError(t, err)
	*p2 = 7
	require.Equal(t, h1.Index(), h2.Index())
	require.NotEqual(t, h1.Generation(), h2.Generation())

	_, ok := a.Get(h1)
	require.False(t, ok, "stale handle must report absent after reuse")

	v, ok := a.Get(h2)
	require.True(t, ok)
	require.Equal(t, 7, *v)
}

func TestArenaFullReturnsError(t *testing.T) {
	a := NewArena[int](2)
	_, _, err := a.Alloc()
	require.NoError(t, err)
	_, _, err = a.Alloc()
	require.NoError(t, err)
	_, _, err = a.Alloc()
	require.Error(t, err)
}

func TestArenaIterateSkipsFreed(t *testing.T) {
	a := NewArena[int](4)
	h1, p1, _ := a.Alloc()
	*p1 = 1
	h2, p2, _ := a.Alloc()
	*p2 = 2
	_, p3, _ := a.Alloc()
	*p3 = 3
	a.Free(h2)

	var seen []int
	it := a.Iterate()
	for {
		h, v, ok := it.Next()
		if !ok {
			break
		}
		require.NotEqual(t, h2, h)
		seen = append(seen, *v)
	}
	require.ElementsMatch(t, []int{1, 3}, seen)
	require.NotEqual(t, h1, h2)
}

func TestHandleValidity(t *testing.T) {
	var zero Handle
	require.False(t, zero.Valid())

	a := NewArena[int](1)
	h, _, err := a.Alloc()
	require.NoError(t, err)
	require.True(t, h.Valid())
}
