// Package observe implements the observer pipeline (spec.md §3, §4.5): a
// raw append-only ring per observed model, a linearizer that resamples it
// onto a fixed time step, and the Sink contract external collaborators
// implement to consume the result.
//
// The raw ring's storage layout (power-of-two capacity, masked cursors) is
// grounded on the teacher's catrate.ringBuffer[E]; unlike that ring (single
// goroutine, ordered element type) ours carries (t, x, y) triples and adds
// a version marker so a single producer (the driver) can run concurrently
// with multiple readers, per spec.md §4.5 and §5.
package observe

import (
	"sync"
)

// Sample is one observed (time, value) pair, recorded as (t, x, y) since
// some models (e.g. QSS integrators) report a primary value and its
// derivative together (spec.md §6: "a sequence of (t: f64, x: f64, y: f64)
// records").
type Sample struct {
	T, X, Y float64
}

// RawRing is the append-only ring of raw samples a model pushes into at
// every transition.
type RawRing struct {
	mu      sync.RWMutex
	samples []Sample
	r, w    uint
	version uint64
}

// NewRawRing constructs a RawRing with the given capacity, rounded up to
// the next power of two (matching catrate's mask-based indexing).
func NewRawRing(capacity int) *RawRing {
	if capacity <= 0 {
		capacity = 1
	}
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &RawRing{samples: make([]Sample, n)}
}

func (x *RawRing) mask(v uint) uint { return v & (uint(len(x.samples)) - 1) }

// Len returns the number of samples currently buffered.
func (x *RawRing) Len() int { return int(x.w - x.r) }

// Cap returns the ring's fixed capacity.
func (x *RawRing) Cap() int { return len(x.samples) }

// Push appends s, evicting the oldest sample if the ring is full. It is the
// single-producer write path and must only be called by the driver.
func (x *RawRing) Push(s Sample) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Len() == len(x.samples) {
		x.r++ // evict oldest: equivalent to catrate's RemoveBefore(1)
		x.version++
	}
	x.samples[x.mask(x.w)] = s
	x.w++
}

// Clear empties the ring and bumps the version so any in-flight reader
// retries and observes the truncation.
func (x *RawRing) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.r, x.w = 0, 0
	x.version++
}

// Get returns the i-th oldest sample still buffered.
func (x *RawRing) Get(i int) Sample {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.samples[x.mask(x.r+uint(i))]
}

// View is a point-in-time, caller-owned copy of a ring's contents. It never
// outlives the call that produced it (spec.md §9: "must not allow the
// returned view to outlive the buffer"), since it owns its own slice.
type View struct {
	Samples []Sample
	Version uint64
}

// ReadOnly acquires a consistent snapshot of the ring, retrying internally
// if a concurrent Push/Clear truncates mid-copy, per spec.md §4.5's version
// marker contract.
func (x *RawRing) ReadOnly() View {
	for {
		if v, ok := x.TryReadOnly(); ok {
			return v
		}
	}
}

// TryReadOnly makes one attempt at a consistent snapshot, returning ok=false
// if a concurrent write truncated the ring mid-copy.
func (x *RawRing) TryReadOnly() (View, bool) {
	x.mu.RLock()
	v1 := x.version
	out := make([]Sample, x.Len())
	for i := range out {
		out[i] = x.samples[x.mask(x.r+uint(i))]
	}
	v2 := x.version
	x.mu.RUnlock()
	if v1 != v2 {
		return View{}, false
	}
	return View{Samples: out, Version: v1}, true
}
