package id

import "github.com/vle-forge/irritator-sub004/simerr"

// slot wraps a value of type T with the bookkeeping the arena needs: whether
// it is currently allocated, its current generation, and (when free) the
// index of the next free slot, embedding the free list directly in storage.
type slot[T any] struct {
	value      T
	generation uint8
	allocated  bool
	nextFree   int // valid only when !allocated; -1 terminates the list
}

// Arena is a generational object pool giving O(1) alloc/free and safe
// dangling-handle detection. The zero value is not usable; construct with
// [NewArena].
type Arena[T any] struct {
	slots    []slot[T]
	freeHead int // -1 when the free list is empty
	capacity int
	live     int
}

// NewArena constructs an Arena that can hold up to capacity live values at
// once. capacity is clamped to [MaxIndex].
func NewArena[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > MaxIndex {
		capacity = MaxIndex
	}
	return &Arena[T]{
		slots:    make([]slot[T], 0, capacity),
		freeHead: -1,
		capacity: capacity,
	}
}

// Len returns the number of currently-allocated values.
func (a *Arena[T]) Len() int { return a.live }

// Cap returns the arena's configured capacity.
func (a *Arena[T]) Cap() int { return a.capacity }

// Alloc allocates a new value, returning its handle and a pointer into
// arena-owned storage. The pointer is invalidated by any later Alloc that
// grows the backing slice; use Get for stable access afterwards.
func (a *Arena[T]) Alloc() (Handle, *T, error) {
	if a.freeHead >= 0 {
		idx := a.freeHead
		s := &a.slots[idx]
		a.freeHead = s.nextFree
		s.allocated = true
		a.live++
		return newHandle(idx, s.generation), &s.value, nil
	}

	if len(a.slots) >= a.capacity {
		return 0, nil, simerr.ErrArenaFull
	}

	a.slots = append(a.slots, slot[T]{allocated: true, generation: 1})
	idx := len(a.slots) - 1
	a.live++
	return newHandle(idx, a.slots[idx].generation), &a.slots[idx].value, nil
}

// Free releases the slot referenced by h. Freeing an absent or already-free
// handle is a no-op. The slot's generation is bumped (wrapping, but never
// landing on 0) so any handle referencing the old occupant reports absent.
func (a *Arena[T]) Free(h Handle) {
	idx := h.Index()
	if idx < 0 || idx >= len(a.slots) {
		return
	}
	s := &a.slots[idx]
	if !s.allocated || s.generation != h.Generation() {
		return
	}
	var zero T
	s.value = zero
	s.allocated = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.nextFree = a.freeHead
	a.freeHead = idx
	a.live--
}

// Get returns a pointer to the value referenced by h, or (nil, false) if h
// is stale or out of range.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	idx := h.Index()
	if idx < 0 || idx >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.allocated || s.generation != h.Generation() {
		return nil, false
	}
	return &s.value, true
}

// GetID returns the handle that would currently be required to look up a
// slot holding a pointer previously returned by Alloc or Get. It is the
// caller's responsibility to pass a pointer actually owned by this arena.
func (a *Arena[T]) GetID(v *T) (Handle, bool) {
	for i := range a.slots {
		if &a.slots[i].value == v {
			s := &a.slots[i]
			if !s.allocated {
				return 0, false
			}
			return newHandle(i, s.generation), true
		}
	}
	return 0, false
}

// Iterator walks live values in index order, skipping freed slots.
type Iterator[T any] struct {
	a   *Arena[T]
	pos int
}

// Iterate returns an Iterator positioned before the first live value.
func (a *Arena[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{a: a, pos: -1}
}

// Next advances the iterator and returns the next live value and its handle,
// or (0, nil, false) once exhausted.
func (it *Iterator[T]) Next() (Handle, *T, bool) {
	for it.pos++; it.pos < len(it.a.slots); it.pos++ {
		s := &it.a.slots[it.pos]
		if s.allocated {
			return newHandle(it.pos, s.generation), &s.value, true
		}
	}
	return 0, nil, false
}
