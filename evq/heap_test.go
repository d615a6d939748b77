package evq

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vle-forge/irritator-sub004/id"
)

func handleAt(idx int) id.Handle {
	a := id.NewArena[struct{}](idx + 1)
	var h id.Handle
	for i := 0; i <= idx; i++ {
		h, _, _ = a.Alloc()
	}
	return h
}

func TestHeapPopsInTimeOrder(t *testing.T) {
	h := NewHeap()
	h.PushModel(handleAt(0), 3)
	h.PushModel(handleAt(1), 1)
	h.PushModel(handleAt(2), 2)

	var times []float64
	for {
		e, ok := h.PopMin()
		if !ok {
			break
		}
		times = append(times, e.Time)
	}
	require.Equal(t, []float64{1, 2, 3}, times)
}

func TestHeapTieBreakIsInsertionOrder(t *testing.T) {
	h := NewHeap()
	first := h.PushModel(handleAt(0), 5)
	second := h.PushModel(handleAt(1), 5)

	e, ok := h.PopMin()
	require.True(t, ok)
	require.Equal(t, first.Model, e.Model)

	e, ok = h.PopMin()
	require.True(t, ok)
	require.Equal(t, second.Model, e.Model)
}

func TestHeapUpdateRekeys(t *testing.T) {
	h := NewHeap()
	e1 := h.PushModel(handleAt(0), 10)
	h.PushModel(handleAt(1), 20)

	h.Update(e1, 1)

	top, ok := h.PeekMin()
	require.True(t, ok)
	require.Equal(t, e1, top)
	require.Equal(t, 1.0, top.Time)
}

func TestHeapRemove(t *testing.T) {
	h := NewHeap()
	e1 := h.PushModel(handleAt(0), 1)
	h.PushModel(handleAt(1), 2)

	h.Remove(e1)
	require.Equal(t, 1, h.Len())

	top, ok := h.PeekMin()
	require.True(t, ok)
	require.Equal(t, 2.0, top.Time)
}
