// Package evq implements the scheduler's time heap (spec.md §3, §4.3): a
// binary min-heap over (time, model) pairs where each entry remembers its
// own position so it can be re-keyed in O(log N), grounded on the teacher's
// eventloop.timerHeap (container/heap over a slice of entries).
package evq

import (
	"container/heap"

	"github.com/vle-forge/irritator-sub004/id"
)

// Entry is one scheduled model in the heap. Entries are never copied after
// being pushed: the heap hands out *Entry so a model can hold a stable
// reference for later Update calls.
type Entry struct {
	Model id.Handle
	Time  float64

	seq   uint64 // insertion-order tie-break, see Less
	index int    // position within the heap slice, maintained by heap.Interface
}

// Heap is a binary min-heap of *Entry keyed by Time, with Model as an
// insertion-order tie-break (spec.md §4.3: "at equal time ... must be
// deterministic — use insertion order").
type Heap struct {
	entries []*Entry
	nextSeq uint64
}

// NewHeap constructs an empty Heap.
func NewHeap() *Heap {
	return &Heap{}
}

func (h *Heap) Len() int { return len(h.entries) }

func (h *Heap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}

func (h *Heap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *Heap) Push(x any) {
	e := x.(*Entry)
	e.index = len(h.entries)
	h.entries = append(h.entries, e)
}

func (h *Heap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	h.entries = old[:n-1]
	return e
}

// PushModel schedules model to fire at time t, returning the Entry handle
// used for later Update calls.
func (h *Heap) PushModel(model id.Handle, t float64) *Entry {
	e := &Entry{Model: model, Time: t, seq: h.nextSeq}
	h.nextSeq++
	heap.Push(h, e)
	return e
}

// Update re-keys e to newTime in O(log N), implementing spec.md §4.3's
// "update(id, new_t)".
func (h *Heap) Update(e *Entry, newTime float64) {
	e.Time = newTime
	heap.Fix(h, e.index)
}

// PeekMin returns the entry with the smallest time without removing it.
func (h *Heap) PeekMin() (*Entry, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	return h.entries[0], true
}

// PopMin removes and returns the entry with the smallest time.
func (h *Heap) PopMin() (*Entry, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	return heap.Pop(h).(*Entry), true
}

// Remove removes e from the heap, wherever it currently sits. It is used
// when a model is destroyed mid-simulation.
func (h *Heap) Remove(e *Entry) {
	if e.index < 0 || e.index >= len(h.entries) || h.entries[e.index] != e {
		return
	}
	heap.Remove(h, e.index)
}
