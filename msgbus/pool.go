package msgbus

import (
	"github.com/vle-forge/irritator-sub004/memres"
	"github.com/vle-forge/irritator-sub004/simerr"
)

// Pool is the per-step message pool (spec.md §4.2, §5): a monotonic
// allocator reset at the end of every bag, bounded so that a runaway
// fan-out fails loudly rather than growing without limit.
type Pool struct {
	values *memres.Pool[Value]
}

// NewPool constructs a Pool that allows at most maxMessages live message
// allocations per bag (0 means unbounded).
func NewPool(maxMessages int) *Pool {
	if maxMessages <= 0 {
		return &Pool{values: memres.NewPool[Value](256)}
	}
	return &Pool{values: memres.NewBoundedPool[Value](maxMessages)}
}

// Reset discards every allocation made since the previous Reset, matching
// the monotonic resource's bag-end reset.
func (p *Pool) Reset() { p.values.Reset() }

// Dispatch allocates v from the pool and appends it to the input queue of
// every connection target's input port, via deliver. deliver returns false
// if the target model or port does not exist (the caller decides whether
// that is fatal); Dispatch stops on the first allocation failure.
func (p *Pool) Dispatch(out *OutputPort, v Value, deliver func(c Connection, v Value) bool) error {
	for _, c := range out.Connections {
		if _, _, err := p.values.Alloc(); err != nil {
			return simerr.ErrMessagePoolExhausted
		}
		deliver(c, v)
	}
	return nil
}
