package observe

import (
	"github.com/vle-forge/irritator-sub004/id"
)

// Observer owns one model's raw ring and its linearized (fixed-step)
// companion ring, per spec.md §3: "Parameters: raw capacity, linearized
// capacity, sampling interval."
type Observer struct {
	Raw        *RawRing
	Linearized *RawRing
	TimeStep   float64

	lastRaw   Sample
	haveLast  bool
	nextStamp float64
	primed    bool
}

// NewObserver constructs an Observer with the given raw/linearized
// capacities and linearization time step.
func NewObserver(rawCapacity, linearizedCapacity int, timeStep float64) *Observer {
	if timeStep <= 0 {
		timeStep = 1
	}
	return &Observer{
		Raw:        NewRawRing(rawCapacity),
		Linearized: NewRawRing(linearizedCapacity),
		TimeStep:   timeStep,
	}
}

// Push records a raw sample and resamples it into the linearized ring by
// linear interpolation against the previous raw sample, per spec.md §4.5:
// "A linearizer ... interpolates linearly between consecutive raw samples
// at a configured time_step".
func (o *Observer) Push(t, x, y float64) {
	s := Sample{T: t, X: x, Y: y}
	o.Raw.Push(s)

	if !o.haveLast {
		o.lastRaw = s
		o.haveLast = true
		o.nextStamp = t
		o.primed = true
		o.Linearized.Push(s)
		o.nextStamp += o.TimeStep
		return
	}

	for o.nextStamp <= t {
		frac := 0.0
		if dt := t - o.lastRaw.T; dt > 0 {
			frac = (o.nextStamp - o.lastRaw.T) / dt
		}
		lx := o.lastRaw.X + frac*(x-o.lastRaw.X)
		ly := o.lastRaw.Y + frac*(y-o.lastRaw.Y)
		o.Linearized.Push(Sample{T: o.nextStamp, X: lx, Y: ly})
		o.nextStamp += o.TimeStep
	}
	o.lastRaw = s
}

// Clear resets both rings and the interpolation state, per spec.md §3:
// "cleared on restart".
func (o *Observer) Clear() {
	o.Raw.Clear()
	o.Linearized.Clear()
	o.haveLast = false
	o.primed = false
}

// Registry owns every Observer created by the builder or lazily by the
// simulation, keyed by id.Handle the way models reference their obs_id.
type Registry struct {
	observers *id.Arena[Observer]
}

// NewRegistry constructs an empty observer Registry.
func NewRegistry(capacity int) *Registry {
	return &Registry{observers: id.NewArena[Observer](capacity)}
}

// Add registers a new Observer, returning its handle.
func (r *Registry) Add(rawCapacity, linearizedCapacity int, timeStep float64) (id.Handle, error) {
	h, slot, err := r.observers.Alloc()
	if err != nil {
		return 0, err
	}
	*slot = *NewObserver(rawCapacity, linearizedCapacity, timeStep)
	return h, nil
}

// Get returns the Observer for h.
func (r *Registry) Get(h id.Handle) (*Observer, bool) { return r.observers.Get(h) }

// Remove destroys the observer referenced by h, per spec.md §3: "destroyed
// with its model."
func (r *Registry) Remove(h id.Handle) { r.observers.Free(h) }
