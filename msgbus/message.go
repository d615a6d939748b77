// Package msgbus implements the message channel (spec.md §4.2): per-output
// connection lists, per-input message queues, and the per-bag scratch pool
// messages are allocated from.
package msgbus

import (
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/simerr"
)

// Value is a message payload of 1-3 scalars, matching spec.md §3's
// "A value of 1-3 scalars plus the port of arrival."
type Value struct {
	V [3]float64
	N int
}

// NewValue1/2/3 construct a Value carrying the given number of scalars.
func NewValue1(x0 float64) Value                   { return Value{V: [3]float64{x0}, N: 1} }
func NewValue2(x0, x1 float64) Value                { return Value{V: [3]float64{x0, x1}, N: 2} }
func NewValue3(x0, x1, x2 float64) Value            { return Value{V: [3]float64{x0, x1, x2}, N: 3} }

// Connection is a (target model, target port) pair, stored by value so that
// deleting a model never requires fixing up a dangling reference — spec.md
// §3 "No back-references; deletion of a model scans all output ports."
type Connection struct {
	Target id.Handle
	Port   int
}

// OutputPort owns the set of connections fed by one output port.
type OutputPort struct {
	Connections []Connection
}

// Connect adds (target, port) to o's connection set. It returns
// simerr-wrapped ErrConnectionExists if the pair is already present,
// implementing the "connection idempotence" property (spec.md §8).
func (o *OutputPort) Connect(target id.Handle, port int) error {
	for _, c := range o.Connections {
		if c.Target == target && c.Port == port {
			return simerr.ErrConnectionExists
		}
	}
	o.Connections = append(o.Connections, Connection{Target: target, Port: port})
	return nil
}

// Disconnect removes (target, port) if present, reporting whether anything
// was removed.
func (o *OutputPort) Disconnect(target id.Handle, port int) bool {
	for i, c := range o.Connections {
		if c.Target == target && c.Port == port {
			o.Connections = append(o.Connections[:i], o.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// InputQueue buffers messages arriving on one input port during a bag.
type InputQueue struct {
	messages []Value
}

// Push appends v to the queue.
func (q *InputQueue) Push(v Value) { q.messages = append(q.messages, v) }

// View returns a read-only view of the currently queued messages. Callers
// must not retain it past the next Clear.
func (q *InputQueue) View() []Value { return q.messages }

// Empty reports whether the queue currently holds no messages.
func (q *InputQueue) Empty() bool { return len(q.messages) == 0 }

// Clear empties the queue in place, reusing its backing array, matching
// spec.md §4.2: "At the end of the bag ... all input queues are cleared."
func (q *InputQueue) Clear() { q.messages = q.messages[:0] }
