package source

import (
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/simerr"
)

// entry is the registry's internal record for one source: the stream
// implementation plus the chunked buffer consumer models dispatch from, per
// spec.md §4.4's "Each source owns an internal buffer ... dispatch(...) is
// called by consumer models; if the buffer underflows, the source refills".
type entry struct {
	kind      Kind
	stream    Stream
	chunkSize int
	buffer    []float64
	pos       int
}

// Registry owns every source created by the builder and provides the
// dispatch/rewind/prepare contract spec.md §4.4 and §6 describe.
type Registry struct {
	sources *id.Arena[entry]
}

// NewRegistry constructs an empty Registry able to hold up to capacity
// sources.
func NewRegistry(capacity int) *Registry {
	return &Registry{sources: id.NewArena[entry](capacity)}
}

// Add registers a new source of the given kind, backed by stream, with the
// given chunk_size contract (spec.md §3).
func (r *Registry) Add(kind Kind, stream Stream, chunkSize int) (id.Handle, error) {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	h, e, err := r.sources.Alloc()
	if err != nil {
		return 0, err
	}
	e.kind = kind
	e.stream = stream
	e.chunkSize = chunkSize
	e.buffer = make([]float64, 0, chunkSize)
	return h, nil
}

// Prepare fills every source's initial buffer contents, per spec.md §4.4
// "prepare() fills all buffers to their initial contents."
func (r *Registry) Prepare() error {
	it := r.sources.Iterate()
	for {
		_, e, ok := it.Next()
		if !ok {
			break
		}
		if err := e.stream.Prepare(); err != nil {
			return simerr.ErrSourcePrepareFailed
		}
		if err := r.refill(e); err != nil && err != simerr.ErrSourceExhausted {
			return err
		}
	}
	return nil
}

func (r *Registry) refill(e *entry) error {
	scratch := make([]float64, e.chunkSize)
	n, err := e.stream.Next(scratch)
	if n > 0 {
		e.buffer = append(e.buffer[:0], scratch[:n]...)
		e.pos = 0
	}
	if err != nil {
		return err
	}
	return nil
}

// Dispatch is called by consumer models to obtain the next scalar value
// from source h, refilling its chunk buffer on underflow (spec.md §4.4).
func (r *Registry) Dispatch(h id.Handle) (float64, error) {
	e, ok := r.sources.Get(h)
	if !ok {
		return 0, simerr.ErrUnknownModel
	}
	if e.pos >= len(e.buffer) {
		if err := r.refill(e); err != nil {
			return 0, err
		}
		if e.pos >= len(e.buffer) {
			return 0, simerr.ErrSourceExhausted
		}
	}
	v := e.buffer[e.pos]
	e.pos++
	return v, nil
}

// Rewind resets a random source's counter to the given step, per spec.md
// §4.4's rewind contract. It is a no-op (returning false) for non-random
// sources.
func (r *Registry) Rewind(h id.Handle, step uint64) bool {
	e, ok := r.sources.Get(h)
	if !ok {
		return false
	}
	rs, ok := e.stream.(*RandomSource)
	if !ok {
		return false
	}
	rs.Rewind(step)
	e.buffer = e.buffer[:0]
	e.pos = 0
	return true
}

// Kind reports the registered kind of source h.
func (r *Registry) Kind(h id.Handle) (Kind, bool) {
	e, ok := r.sources.Get(h)
	if !ok {
		return 0, false
	}
	return e.kind, true
}
