package sim

import (
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/model"
	"github.com/vle-forge/irritator-sub004/source"
)

// Builder exposes the four-operation builder contract spec.md §6 names
// (add_model, connect, observe, add_source) under the Go naming the rest of
// the package uses, backed directly by a Simulation under construction.
type Builder struct {
	sim *Simulation
}

// NewBuilder wraps sim for construction-time use. sim must still be
// StateUninitialized.
func NewBuilder(sim *Simulation) *Builder { return &Builder{sim: sim} }

// AddModel registers m and returns its handle (spec.md §6 "add_model").
func (b *Builder) AddModel(m *model.Model) (id.Handle, error) { return b.sim.AddModel(m) }

// Connect wires srcPort of src to dstPort of dst (spec.md §6 "connect").
func (b *Builder) Connect(src id.Handle, srcPort int, dst id.Handle, dstPort int) error {
	return b.sim.Connect(src, srcPort, dst, dstPort)
}

// Observe attaches an observer to model h (spec.md §6 "observe").
func (b *Builder) Observe(h id.Handle, rawCap, linCap int, step float64) error {
	return b.sim.AttachObserver(h, rawCap, linCap, step)
}

// AddSource registers a source stream (spec.md §6 "add_source").
func (b *Builder) AddSource(kind source.Kind, stream source.Stream, chunkSize int) (id.Handle, error) {
	return b.sim.Sources().Add(kind, stream, chunkSize)
}
