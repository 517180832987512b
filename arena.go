package stockpile

var _ Arena = &arena{}

type slot struct {
	generation uint32
	occupied   bool
}

type arena struct {
	slots []slot
	free  []uint32
	count int
}

func newArena() *arena {
	return &arena{}
}

// Allocate returns a handle to a fresh or recycled slot. The free list is
// LIFO: the most recently freed slot is reused first. Fresh slots start at
// generation 0; recycled slots carry the generation bumped by Free, so a
// reused slot always issues a strictly greater generation than any handle
// previously alive at that index.
func (a *arena) Allocate() Handle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	a.slots[index].occupied = true
	a.count++
	return Handle{index: index, generation: a.slots[index].generation}
}

// Free releases the slot behind the handle and returns true. Stale or already
// freed handles return false with no effect. The generation counter increments
// here and only here.
func (a *arena) Free(h Handle) bool {
	if !a.Alive(h) {
		return false
	}
	s := &a.slots[h.index]
	s.occupied = false
	s.generation++
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// Alive reports whether the handle references a currently occupied slot at its
// issued generation.
func (a *arena) Alive(h Handle) bool {
	if h.index >= uint32(len(a.slots)) {
		return false
	}
	s := a.slots[h.index]
	return s.occupied && s.generation == h.generation
}

// Generation returns the current generation at index, allowing higher layers
// to validate or reconstruct handles without allocating.
func (a *arena) Generation(index uint32) (uint32, bool) {
	if index >= uint32(len(a.slots)) {
		return 0, false
	}
	return a.slots[index].generation, true
}

// Occupied reports whether the slot at index currently holds an entity,
// regardless of generation.
func (a *arena) Occupied(index uint32) bool {
	return index < uint32(len(a.slots)) && a.slots[index].occupied
}

// Capacity returns the total number of slots ever allocated.
func (a *arena) Capacity() int {
	return len(a.slots)
}

// Count returns the number of live entities.
func (a *arena) Count() int {
	return a.count
}
