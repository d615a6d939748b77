package model

import (
	"math"

	"github.com/vle-forge/irritator-sub004/msgbus"
)

// TimeFuncShape selects which closed-form function of simulated time
// timeFuncState emits (spec.md §4.6 "time function").
type TimeFuncShape int

const (
	TimeFuncIdentity TimeFuncShape = iota
	TimeFuncSquareWave
	TimeFuncSine
)

// timeFuncState implements a source whose output is a deterministic
// function of absolute simulated time, resampled at a fixed period.
type timeFuncState struct {
	shape  TimeFuncShape
	period float64
	amp    float64
	value  float64
}

// TimeFuncParams configures a time-function model.
type TimeFuncParams struct {
	Shape  TimeFuncShape
	Period float64
	Amplitude float64
}

// WithTimeFunc attaches time-function parameters to m.
func WithTimeFunc(m *Model, p TimeFuncParams) *Model {
	if p.Period <= 0 {
		p.Period = 1
	}
	if p.Amplitude == 0 {
		p.Amplitude = 1
	}
	m.timeFunc = &timeFuncState{shape: p.Shape, period: p.Period, amp: p.Amplitude}
	return m
}

func timeFuncInitialize(m *Model, t float64) error {
	timeFuncSample(m.timeFunc, t)
	m.Sigma = m.timeFunc.period
	return nil
}

func timeFuncSample(s *timeFuncState, t float64) {
	switch s.shape {
	case TimeFuncSquareWave:
		phase := math.Mod(t, s.period) / s.period
		if phase < 0.5 {
			s.value = s.amp
		} else {
			s.value = -s.amp
		}
	case TimeFuncSine:
		s.value = s.amp * math.Sin(2*math.Pi*t/s.period)
	default:
		s.value = t
	}
}

func timeFuncLambda(m *Model) [][]msgbus.Value {
	return [][]msgbus.Value{{msgbus.NewValue1(m.timeFunc.value)}}
}

func timeFuncDeltaInt(m *Model, t float64) {
	timeFuncSample(m.timeFunc, t)
	m.Sigma = m.timeFunc.period
}

func timeFuncDeltaExt(m *Model, t, _ float64) {
	timeFuncSample(m.timeFunc, t)
	m.TLast = t
}

func timeFuncObservation(m *Model) (x, y float64) {
	return m.timeFunc.value, 0
}
