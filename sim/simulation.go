package sim

import (
	"sync/atomic"

	"github.com/vle-forge/irritator-sub004/evq"
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/logging"
	"github.com/vle-forge/irritator-sub004/model"
	"github.com/vle-forge/irritator-sub004/msgbus"
	"github.com/vle-forge/irritator-sub004/observe"
	"github.com/vle-forge/irritator-sub004/simerr"
	"github.com/vle-forge/irritator-sub004/source"
)

// modelEntry pairs a stored model with its scheduler entry.
type modelEntry struct {
	model *model.Model
	entry *evq.Entry
}

// Simulation is the driver (spec.md §4.7): it owns every model, the event
// heap, message delivery, and observer sampling, and advances them through
// bag-at-a-time steps.
type Simulation struct {
	log logging.Logger

	models   *id.Arena[modelEntry]
	heap     *evq.Heap
	observers *observe.Registry
	sources  *source.Registry

	state State
	time  float64

	stopRequested atomic.Bool

	bagImminent  map[id.Handle]struct{}
	bagInfluenced map[id.Handle]struct{}

	stepping bool
}

// Config bounds the Simulation's internal arenas and registries.
type Config struct {
	MaxModels    int
	MaxObservers int
	MaxSources   int
	Log          *logging.Logger // nil uses logging.Nop()
}

// New constructs an uninitialized Simulation.
func New(cfg Config) *Simulation {
	log := logging.Nop()
	if cfg.Log != nil {
		log = *cfg.Log
	}
	return &Simulation{
		log:           log,
		models:        id.NewArena[modelEntry](cfg.MaxModels),
		heap:          evq.NewHeap(),
		observers:     observe.NewRegistry(cfg.MaxObservers),
		sources:       source.NewRegistry(cfg.MaxSources),
		state:         StateUninitialized,
		bagImminent:   make(map[id.Handle]struct{}),
		bagInfluenced: make(map[id.Handle]struct{}),
	}
}

// Sources returns the source registry, for builder wiring before Initialize.
func (s *Simulation) Sources() *source.Registry { return s.sources }

// Observers returns the observer registry, for builder wiring before
// Initialize.
func (s *Simulation) Observers() *observe.Registry { return s.observers }

// State reports the current lifecycle state.
func (s *Simulation) State() State { return s.state }

// Time reports the current simulated time.
func (s *Simulation) Time() float64 { return s.time }

// AddModel registers m (already configured with its kind-specific With*
// params) and returns its handle. Must be called before Initialize.
func (s *Simulation) AddModel(m *model.Model) (id.Handle, error) {
	simerr.Ensure(s.state == StateUninitialized, "sim: AddModel after Initialize")
	h, slot, err := s.models.Alloc()
	if err != nil {
		return 0, err
	}
	slot.model = m
	return h, nil
}

// Model returns the model registered at h.
func (s *Simulation) Model(h id.Handle) (*model.Model, bool) {
	e, ok := s.models.Get(h)
	if !ok {
		return nil, false
	}
	return e.model, true
}

// Connect wires output port srcPort of src to input port dstPort of dst
// (spec.md §6 builder contract "connect").
func (s *Simulation) Connect(src id.Handle, srcPort int, dst id.Handle, dstPort int) error {
	se, ok := s.models.Get(src)
	if !ok {
		return simerr.ErrUnknownModel
	}
	de, ok := s.models.Get(dst)
	if !ok {
		return simerr.ErrUnknownModel
	}
	if srcPort < 0 || srcPort >= len(se.model.Outputs) {
		return simerr.ErrPortOutOfRange
	}
	if dstPort < 0 || dstPort >= len(de.model.Inputs) {
		return simerr.ErrPortOutOfRange
	}
	return se.model.Outputs[srcPort].Connect(dst, dstPort)
}

// AttachObserver allocates an observer for model h, storing its handle on
// the model so Observation results can be pushed each step.
func (s *Simulation) AttachObserver(h id.Handle, rawCapacity, linearizedCapacity int, timeStep float64) error {
	e, ok := s.models.Get(h)
	if !ok {
		return simerr.ErrUnknownModel
	}
	obsID, err := s.observers.Add(rawCapacity, linearizedCapacity, timeStep)
	if err != nil {
		return err
	}
	e.model.ObsID = obsID
	return nil
}

// RequestStop sets the cooperative stop flag (SPEC_FULL §5), checked once
// per bag boundary.
func (s *Simulation) RequestStop() { s.stopRequested.Store(true) }

// Initialize transitions uninitialized -> initialized: prepares all
// sources, initializes every model, and schedules their first events
// (spec.md §4.7).
func (s *Simulation) Initialize(t0 float64) error {
	simerr.Ensure(canTransition(s.state, StateInitialized), "sim: Initialize from state %s", s.state)

	if err := s.sources.Prepare(); err != nil {
		return err
	}

	s.time = t0
	it := s.models.Iterate()
	for {
		h, me, ok := it.Next()
		if !ok {
			break
		}
		if err := me.model.Initialize(t0); err != nil {
			return err
		}
		me.entry = s.heap.PushModel(h, t0+me.model.Sigma)
	}

	s.state = StateInitialized
	s.log.Info().Msg("simulation initialized")
	return nil
}

// Finalize transitions to the terminal state; no further Step calls are
// permitted afterwards.
func (s *Simulation) Finalize() error {
	simerr.Ensure(canTransition(s.state, StateFinalized), "sim: Finalize from state %s", s.state)
	s.state = StateFinalized
	s.log.Info().Float64("time", s.time).Msg("simulation finalized")
	return nil
}

// Step executes one bag (spec.md §4.7): collect the imminent set at the
// heap's minimum time, compute lambda and route messages to influenced
// models, run delta_int/delta_ext/delta_con on the union, sample observers,
// clear input queues, and reschedule. Returns false once the heap is empty
// or a stop has been requested.
func (s *Simulation) Step() (bool, error) {
	simerr.Ensure(s.state == StateInitialized || s.state == StateRunning, "sim: Step from state %s", s.state)
	simerr.Ensure(!s.stepping, "sim: reentrant Step")
	s.stepping = true
	defer func() { s.stepping = false }()

	if s.stopRequested.Load() {
		return false, nil
	}

	top, ok := s.heap.PeekMin()
	if !ok {
		return false, nil
	}

	t := top.Time
	s.time = t
	s.state = StateRunning

	for k := range s.bagImminent {
		delete(s.bagImminent, k)
	}
	for k := range s.bagInfluenced {
		delete(s.bagInfluenced, k)
	}

	for {
		entry, ok := s.heap.PeekMin()
		if !ok || entry.Time > t {
			break
		}
		s.heap.PopMin()
		s.bagImminent[entry.Model] = struct{}{}
	}

	for h := range s.bagImminent {
		me, ok := s.models.Get(h)
		if !ok {
			continue
		}
		outputs := me.model.Lambda()
		if err := s.route(me.model, outputs); err != nil {
			return false, err
		}
	}

	for h := range s.bagImminent {
		me, ok := s.models.Get(h)
		if !ok {
			continue
		}
		s.transition(h, me, t)
		delete(s.bagInfluenced, h)
	}
	for h := range s.bagInfluenced {
		me, ok := s.models.Get(h)
		if !ok {
			continue
		}
		s.transition(h, me, t)
	}

	for h := range s.bagImminent {
		if me, ok := s.models.Get(h); ok {
			s.sample(me.model, t)
			me.model.ClearInputs()
		}
	}
	for h := range s.bagInfluenced {
		if me, ok := s.models.Get(h); ok {
			s.sample(me.model, t)
			me.model.ClearInputs()
		}
	}

	return true, nil
}

// transition applies the correct transition function for h's model,
// distinguishing imminent-only, external-only, and confluent (both) cases
// per spec.md §4.6/§4.7.
func (s *Simulation) transition(h id.Handle, me *modelEntry, t float64) {
	m := me.model
	_, imminent := s.bagImminent[h]
	hasInput := false
	for i := range m.Inputs {
		if !m.Inputs[i].Empty() {
			hasInput = true
			break
		}
	}

	e := t - m.TLast
	switch {
	case imminent && hasInput:
		m.DeltaCon(t)
	case imminent:
		m.DeltaInt(t)
	default:
		m.DeltaExt(t, e)
	}

	me.entry = s.heap.PushModel(h, t+m.Sigma)
}

// route delivers outputs (one slice per output port) to every connection,
// marking destination models as influenced for this bag.
func (s *Simulation) route(src *model.Model, outputs [][]msgbus.Value) error {
	for port, values := range outputs {
		if port >= len(src.Outputs) {
			continue
		}
		for _, v := range values {
			for _, c := range src.Outputs[port].Connections {
				dstEntry, ok := s.models.Get(c.Target)
				if !ok {
					return simerr.ErrUnknownModel
				}
				if c.Port < 0 || c.Port >= len(dstEntry.model.Inputs) {
					return simerr.ErrPortOutOfRange
				}
				dstEntry.model.Inputs[c.Port].Push(v)
				s.bagInfluenced[c.Target] = struct{}{}
			}
		}
	}
	return nil
}

// sample pushes m's current observation into its attached observer, if any.
func (s *Simulation) sample(m *model.Model, t float64) {
	if !m.ObsID.Valid() {
		return
	}
	obs, ok := s.observers.Get(m.ObsID)
	if !ok {
		return
	}
	x, y := m.Observation(t, t-m.TLast)
	obs.Push(t, x, y)
}

// RunFor executes steps until the simulated time advances by at least
// duration past the time at call, or the heap empties, or stop is
// requested.
func (s *Simulation) RunFor(duration float64) error {
	deadline := s.time + duration
	return s.runUntil(deadline)
}

// RunUntil executes steps until the simulated time reaches deadline, or the
// heap empties, or stop is requested.
func (s *Simulation) RunUntil(deadline float64) error {
	return s.runUntil(deadline)
}

func (s *Simulation) runUntil(deadline float64) error {
	for {
		top, ok := s.heap.PeekMin()
		if !ok || top.Time > deadline {
			return nil
		}
		more, err := s.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}
