package model

import (
	"sort"

	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

// queueState implements the three queueing disciplines spec.md §4.6 names
// (queue_fifo, queue_dynamic, queue_priority): buffers arriving values and
// releases them after a service delay.
type queueState struct {
	kind Kind

	fixedDelay float64
	source     sourceDispatcher
	delaySrc   id.Handle

	pending []queueItem
	ready   []float64
}

type queueItem struct {
	value    float64
	priority float64
	dueAt    float64
}

// QueueParams configures a queue model.
type QueueParams struct {
	FixedDelay  float64
	Source      sourceDispatcher
	DelaySource id.Handle // used by queue_dynamic; zero Handle means FixedDelay
}

// WithQueue attaches queue parameters to m.
func WithQueue(m *Model, p QueueParams) *Model {
	m.queue = &queueState{
		kind:       m.Kind,
		fixedDelay: p.FixedDelay,
		source:     p.Source,
		delaySrc:   p.DelaySource,
	}
	return m
}

func queueInitialize(m *Model, _ float64) error {
	m.Sigma = inf
	return nil
}

func queueLambda(m *Model) [][]msgbus.Value {
	s := m.queue
	if len(s.ready) == 0 {
		return [][]msgbus.Value{nil}
	}
	out := make([]msgbus.Value, len(s.ready))
	for i, v := range s.ready {
		out[i] = msgbus.NewValue1(v)
	}
	return [][]msgbus.Value{out}
}

func queueDeltaInt(m *Model, t float64) {
	s := m.queue
	s.ready = s.ready[:0]
	var remaining []queueItem
	for _, it := range s.pending {
		if it.dueAt <= t {
			s.ready = append(s.ready, it.value)
		} else {
			remaining = append(remaining, it)
		}
	}
	s.pending = remaining
	m.TLast = t
	m.Sigma = queueNextSigma(s, t)
}

func queueDeltaExt(m *Model, t, _ float64) {
	s := m.queue
	if view := m.Inputs[0].View(); len(view) > 0 {
		for _, v := range view {
			delay := s.fixedDelay
			if s.source != nil && s.delaySrc.Valid() {
				if d, err := s.source.Dispatch(s.delaySrc); err == nil {
					delay = d
				}
			}
			priority := v.V[0]
			if v.N >= 2 {
				priority = v.V[1]
			}
			s.pending = append(s.pending, queueItem{value: v.V[0], priority: priority, dueAt: t + delay})
		}
		if s.kind == KindQueuePriority {
			sort.Slice(s.pending, func(i, j int) bool { return s.pending[i].priority < s.pending[j].priority })
		}
	}
	m.TLast = t
	m.Sigma = queueNextSigma(s, t)
}

func queueNextSigma(s *queueState, t float64) float64 {
	next := inf
	for _, it := range s.pending {
		if dt := it.dueAt - t; dt < next {
			next = dt
		}
	}
	return clampSigma(next)
}

func queueObservation(m *Model) (x, y float64) {
	return float64(len(m.queue.pending)), 0
}
