package observe

import (
	"fmt"
	"io"

	"github.com/vle-forge/irritator-sub004/codec/jsonpp"
)

// Sink is the external-collaborator contract spec.md §1 names ("observer
// sinks that consume sampled trajectories"). The engine never constructs a
// Sink itself; callers wire one up and feed it samples explicitly (e.g.
// from a View obtained via Observer.Raw.ReadOnly).
type Sink interface {
	Write(t, x, y float64) error
}

// MemorySink appends every sample to an in-memory slice, useful for tests
// and for embedding the engine in a larger Go program that wants direct
// access to trajectories without a serialization round trip.
type MemorySink struct {
	Samples []Sample
}

func (s *MemorySink) Write(t, x, y float64) error {
	s.Samples = append(s.Samples, Sample{T: t, X: x, Y: y})
	return nil
}

// NDJSONSink writes one JSON object per sample to W, newline-delimited.
// It is the minimal non-GUI sink spec.md §1 calls for: presentation glue
// belongs outside the core, but a line-oriented sink is how the CLI (and
// any downstream log shipper) consumes observer output.
type NDJSONSink struct {
	W   io.Writer
	Pretty jsonpp.Mode
}

func (s *NDJSONSink) Write(t, x, y float64) error {
	buf := jsonpp.AppendObject(nil, s.Pretty, []jsonpp.Field{
		{Key: "t", Value: t},
		{Key: "x", Value: x},
		{Key: "y", Value: y},
	})
	buf = append(buf, '\n')
	_, err := s.W.Write(buf)
	if err != nil {
		return fmt.Errorf("observe: ndjson sink: %w", err)
	}
	return nil
}
