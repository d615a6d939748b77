package model

import (
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/msgbus"
)

// generatorState implements the inter-arrival event generator (spec.md
// §4.6 "generator"): draws a delay from a source stream and emits a fixed
// or source-drawn value at each arrival.
type generatorState struct {
	source    sourceDispatcher
	taSource  id.Handle
	valSource id.Handle
	haveVal   bool
	fixedVal  float64
	last      float64
}

// GeneratorParams configures a generator model.
type GeneratorParams struct {
	Source     sourceDispatcher
	TASource   id.Handle // inter-arrival-time stream
	ValueSource id.Handle // optional value stream; zero Handle means FixedValue
	FixedValue float64
}

// WithGenerator attaches generator parameters to m.
func WithGenerator(m *Model, p GeneratorParams) *Model {
	m.generator = &generatorState{
		source:      p.Source,
		taSource:    p.TASource,
		valSource:   p.ValueSource,
		haveVal:     p.ValueSource.Valid(),
		fixedVal:    p.FixedValue,
	}
	return m
}

func generatorInitialize(m *Model, _ float64) error {
	s := m.generator
	dt, err := s.source.Dispatch(s.taSource)
	if err != nil {
		return err
	}
	m.Sigma = dt
	return nil
}

func generatorLambda(m *Model) [][]msgbus.Value {
	s := m.generator
	v := s.fixedVal
	if s.haveVal {
		drawn, err := s.source.Dispatch(s.valSource)
		if err == nil {
			v = drawn
		}
	}
	return [][]msgbus.Value{{msgbus.NewValue1(v)}}
}

func generatorDeltaInt(m *Model, t float64) {
	s := m.generator
	s.last = t
	dt, err := s.source.Dispatch(s.taSource)
	if err != nil {
		m.Sigma = inf
		return
	}
	m.Sigma = dt
}

func generatorObservation(m *Model) (x, y float64) {
	return m.generator.last, 0
}
