package msgbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/simerr"
)

func TestOutputPortConnectIsIdempotent(t *testing.T) {
	var out OutputPort
	target := id.Handle(0x01000001)

	require.NoError(t, out.Connect(target, 2))
	err := out.Connect(target, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, simerr.ErrConnectionExists))
	require.Len(t, out.Connections, 1)
}

func TestOutputPortDisconnect(t *testing.T) {
	var out OutputPort
	target := id.Handle(0x01000001)
	require.NoError(t, out.Connect(target, 0))

	require.True(t, out.Disconnect(target, 0))
	require.False(t, out.Disconnect(target, 0))
	require.Empty(t, out.Connections)
}

func TestInputQueuePushViewClear(t *testing.T) {
	var q InputQueue
	require.True(t, q.Empty())

	q.Push(NewValue1(1))
	q.Push(NewValue2(2, 3))
	require.False(t, q.Empty())
	require.Len(t, q.View(), 2)

	q.Clear()
	require.True(t, q.Empty())
}

func TestNewValueConstructors(t *testing.T) {
	v1 := NewValue1(1)
	require.Equal(t, 1, v1.N)

	v2 := NewValue2(1, 2)
	require.Equal(t, 2, v2.N)

	v3 := NewValue3(1, 2, 3)
	require.Equal(t, 3, v3.N)
	require.Equal(t, [3]float64{1, 2, 3}, v3.V)
}
