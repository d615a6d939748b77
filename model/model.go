// Package model implements the atomic model library (spec.md §2 item 6,
// §4.6): the QSS integrators, algebraic models, event-driven models,
// queues, and the HSM wrapper, plus the common DEVS/QSS transition
// contract every kind implements.
//
// Kinds are a closed tagged union, not an open interface hierarchy, per
// spec.md §9 ("Preferred target representation is a tagged union with a
// single dispatcher keyed on kind, delegating to kind-specific functions —
// no open inheritance"): Model carries one Kind tag plus at most one
// populated kind-specific state pointer, and every operation below
// switches on Kind to the package-private kind function.
package model

import (
	"math"

	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

// inf is positive infinity, used throughout the kind files as the "no
// scheduled internal event" sigma value.
var inf = math.Inf(1)

// Kind tags the closed set of atomic model dynamics (spec.md §3:
// "dynamics_kind (forty-plus variants)" in the original; this port
// implements the subset spec.md §2 item 6 and SPEC_FULL.md §4.6 name).
type Kind int

const (
	KindQSS1Integrator Kind = iota
	KindQSS2Integrator
	KindQSS3Integrator
	KindSum2
	KindSum3
	KindSum4
	KindCross
	KindFilter
	KindPower
	KindConstant
	KindGenerator
	KindQueueFIFO
	KindQueueDynamic
	KindQueuePriority
	KindLogicalAnd2
	KindLogicalAnd3
	KindLogicalOr2
	KindLogicalOr3
	KindLogicalInvert
	KindTimeFunc
	KindCounter
	KindAccumulator
	KindHSMWrapper
)

// Ports returns the (input, output) port counts for kind, used by the
// builder to validate connect() calls against spec.md §6's "rejects ...
// out-of-range ports".
func (k Kind) Ports() (inputs, outputs int) {
	switch k {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		return 2, 1 // (derivative, reset-to-value) -> integrated value
	case KindSum2:
		return 2, 1
	case KindSum3:
		return 3, 1
	case KindSum4:
		return 4, 1
	case KindCross:
		return 3, 2 // (threshold-source, signal, derivative) -> (if-true, if-false)
	case KindFilter:
		return 1, 2 // value -> (reset-up, reset-down)
	case KindPower:
		return 1, 1
	case KindConstant:
		return 0, 1
	case KindGenerator:
		return 0, 1
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		return 1, 1
	case KindLogicalAnd2, KindLogicalOr2:
		return 2, 1
	case KindLogicalAnd3, KindLogicalOr3:
		return 3, 1
	case KindLogicalInvert:
		return 1, 1
	case KindTimeFunc:
		return 0, 1
	case KindCounter, KindAccumulator:
		return 1, 1
	case KindHSMWrapper:
		return 1, 1
	default:
		return 0, 0
	}
}

// Model is one atomic model instance: the fields common to every kind
// (spec.md §3 "Attributes common to all") plus exactly one populated
// kind-specific state pointer.
type Model struct {
	Kind Kind

	TLast float64
	Sigma float64

	Inputs  []msgbus.InputQueue
	Outputs []msgbus.OutputPort

	ObsID id.Handle

	qss       *qssState
	sum       *sumState
	cross     *crossState
	filter    *filterState
	power     *powerState
	constant  *constantState
	generator *generatorState
	queue     *queueState
	logical   *logicalState
	timeFunc  *timeFuncState
	counter   *counterState
	hsmWrap   *hsmWrapperState
}

// New constructs a Model of the given kind with freshly-sized port slices.
// Kind-specific parameters are attached afterwards via the With* helpers
// (WithQSS, WithSum, ...) before Initialize is called.
func New(kind Kind) *Model {
	in, out := kind.Ports()
	return &Model{
		Kind:    kind,
		Inputs:  make([]msgbus.InputQueue, in),
		Outputs: make([]msgbus.OutputPort, out),
	}
}

// Imminent reports whether m must be dispatched at the current bag time,
// per spec.md §3: "If inputs are non-empty at the current global time, the
// model is imminent regardless of sigma."
func (m *Model) Imminent(currentTime float64) bool {
	if m.TLast+m.Sigma <= currentTime {
		return true
	}
	for i := range m.Inputs {
		if !m.Inputs[i].Empty() {
			return true
		}
	}
	return false
}

// Initialize sets the model's initial sigma and primary state (spec.md
// §4.6).
func (m *Model) Initialize(t float64) error {
	m.TLast = t
	switch m.Kind {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		return qssInitialize(m, t)
	case KindSum2, KindSum3, KindSum4:
		return sumInitialize(m, t)
	case KindCross:
		return crossInitialize(m, t)
	case KindFilter:
		return filterInitialize(m, t)
	case KindPower:
		return powerInitialize(m, t)
	case KindConstant:
		return constantInitialize(m, t)
	case KindGenerator:
		return generatorInitialize(m, t)
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		return queueInitialize(m, t)
	case KindLogicalAnd2, KindLogicalAnd3, KindLogicalOr2, KindLogicalOr3, KindLogicalInvert:
		return logicalInitialize(m, t)
	case KindTimeFunc:
		return timeFuncInitialize(m, t)
	case KindCounter, KindAccumulator:
		return counterInitialize(m, t)
	case KindHSMWrapper:
		return hsmWrapperInitialize(m, t)
	}
	m.Sigma = math.Inf(1)
	return nil
}

// TimeAdvance returns sigma (spec.md §4.6).
func (m *Model) TimeAdvance() float64 { return m.Sigma }

// Lambda computes the messages to emit on each output port, just before the
// internal transition fires (spec.md §4.6).
func (m *Model) Lambda() [][]msgbus.Value {
	switch m.Kind {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		return qssLambda(m)
	case KindSum2, KindSum3, KindSum4:
		return sumLambda(m)
	case KindCross:
		return crossLambda(m)
	case KindFilter:
		return filterLambda(m)
	case KindPower:
		return powerLambda(m)
	case KindConstant:
		return constantLambda(m)
	case KindGenerator:
		return generatorLambda(m)
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		return queueLambda(m)
	case KindLogicalAnd2, KindLogicalAnd3, KindLogicalOr2, KindLogicalOr3, KindLogicalInvert:
		return logicalLambda(m)
	case KindTimeFunc:
		return timeFuncLambda(m)
	case KindCounter, KindAccumulator:
		return counterLambda(m)
	case KindHSMWrapper:
		return hsmWrapperLambda(m)
	}
	return nil
}

// DeltaInt applies the internal transition (spec.md §4.6).
func (m *Model) DeltaInt(t float64) {
	switch m.Kind {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		qssDeltaInt(m, t)
	case KindSum2, KindSum3, KindSum4:
		sumDeltaInt(m, t)
	case KindCross:
		crossDeltaInt(m, t)
	case KindFilter:
		filterDeltaInt(m, t)
	case KindPower:
		powerDeltaInt(m, t)
	case KindConstant:
		constantDeltaInt(m, t)
	case KindGenerator:
		generatorDeltaInt(m, t)
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		queueDeltaInt(m, t)
	case KindLogicalAnd2, KindLogicalAnd3, KindLogicalOr2, KindLogicalOr3, KindLogicalInvert:
		logicalDeltaInt(m, t)
	case KindTimeFunc:
		timeFuncDeltaInt(m, t)
	case KindCounter, KindAccumulator:
		counterDeltaInt(m, t)
	case KindHSMWrapper:
		hsmWrapperDeltaInt(m, t)
	}
}

// DeltaExt applies the external transition given elapsed time e = t -
// t_last (spec.md §4.6).
func (m *Model) DeltaExt(t, e float64) {
	switch m.Kind {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		qssDeltaExt(m, t, e)
	case KindSum2, KindSum3, KindSum4:
		sumDeltaExt(m, t, e)
	case KindCross:
		crossDeltaExt(m, t, e)
	case KindFilter:
		filterDeltaExt(m, t, e)
	case KindPower:
		powerDeltaExt(m, t, e)
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		queueDeltaExt(m, t, e)
	case KindLogicalAnd2, KindLogicalAnd3, KindLogicalOr2, KindLogicalOr3, KindLogicalInvert:
		logicalDeltaExt(m, t, e)
	case KindTimeFunc:
		timeFuncDeltaExt(m, t, e)
	case KindCounter, KindAccumulator:
		counterDeltaExt(m, t, e)
	case KindHSMWrapper:
		hsmWrapperDeltaExt(m, t, e)
	}
}

// DeltaCon applies the confluent transition; the default (spec.md §4.6) is
// delta_int then delta_ext with e=0, which every kind but HSMWrapper uses
// (HSMWrapper reverses the order, per SPEC_FULL.md §9).
func (m *Model) DeltaCon(t float64) {
	if m.Kind == KindHSMWrapper {
		hsmWrapperDeltaCon(m, t)
		return
	}
	m.DeltaInt(t)
	m.DeltaExt(t, 0)
}

// ObservationFunc returns the (x, y) pair to sample for observation at
// elapsed time e since t_last (spec.md §4.6).
func (m *Model) Observation(t, e float64) (x, y float64) {
	switch m.Kind {
	case KindQSS1Integrator, KindQSS2Integrator, KindQSS3Integrator:
		return qssObservation(m, e)
	case KindSum2, KindSum3, KindSum4:
		return sumObservation(m)
	case KindCross:
		return crossObservation(m)
	case KindFilter:
		return filterObservation(m)
	case KindPower:
		return powerObservation(m)
	case KindConstant:
		return constantObservation(m)
	case KindGenerator:
		return generatorObservation(m)
	case KindQueueFIFO, KindQueueDynamic, KindQueuePriority:
		return queueObservation(m)
	case KindLogicalAnd2, KindLogicalAnd3, KindLogicalOr2, KindLogicalOr3, KindLogicalInvert:
		return logicalObservation(m)
	case KindTimeFunc:
		return timeFuncObservation(m)
	case KindCounter, KindAccumulator:
		return counterObservation(m)
	case KindHSMWrapper:
		return hsmWrapperObservation(m)
	}
	return 0, 0
}

// ClearInputs clears every input queue, per spec.md §4.7 step 5 ("Clear all
// input queues").
func (m *Model) ClearInputs() {
	for i := range m.Inputs {
		m.Inputs[i].Clear()
	}
}

// correctQuantum implements spec.md §4.6's numeric-robustness rule for QSS
// dQ: "Correctness requires dQ to be finite, strictly positive, and
// non-subnormal; otherwise fall back to 1e-3."
func correctQuantum(dq float64) float64 {
	const fallback = 1e-3
	if math.IsNaN(dq) || math.IsInf(dq, 0) || dq <= 0 {
		return fallback
	}
	if dq != 0 && math.Abs(dq) < math.SmallestNonzeroFloat64*(1<<52) {
		// subnormal: below float64's normal range (~2.2e-308)
		if math.Abs(dq) < 2.2250738585072014e-308 {
			return fallback
		}
	}
	return dq
}

// clampSigma implements spec.md §4.6's "If sigma would be negative or NaN,
// clamp to 0."
func clampSigma(sigma float64) float64 {
	if math.IsNaN(sigma) || sigma < 0 {
		return 0
	}
	return sigma
}

// sourceDispatcher is the minimal surface stochastic models (generator,
// dynamic queue) need from the source registry, kept as an interface here
// so model does not import the full source.Registry API surface.
type sourceDispatcher interface {
	Dispatch(h id.Handle) (float64, error)
}
