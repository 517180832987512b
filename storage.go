package stockpile

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

var _ Storage = &storage{}

// plane holds one component kind across all slots: a hierarchical presence
// bitset plus a boxed payload row per slot. The bit is a cache of row
// presence; the two are always updated together.
type plane struct {
	bits *BitSet
	rows []any
}

func (p *plane) ensureRow(index uint32) {
	if needed := int(index) + 1; needed > len(p.rows) {
		if cap(p.rows) < needed {
			newCap := max(needed, 2*cap(p.rows))
			grown := make([]any, len(p.rows), newCap)
			copy(grown, p.rows)
			p.rows = grown
		}
		p.rows = p.rows[:needed]
	}
}

type storage struct {
	locked  bool
	schema  Schema
	arena   *arena
	planes  []plane
	masks   []mask.Mask
	opQueue opQueue
}

func newStorage(schema Schema) Storage {
	return &storage{
		schema:  schema,
		arena:   newArena(),
		opQueue: newOpQueue(),
	}
}

// NewEntity allocates a slot and returns its handle. The entity starts with
// zero components.
func (sto *storage) NewEntity() (Handle, error) {
	if sto.locked {
		return Handle{}, LockedStorageError{}
	}
	h := sto.arena.Allocate()
	sto.ensureSlot(h.index)
	return h, nil
}

func (sto *storage) NewEntities(n int) ([]Handle, error) {
	if sto.locked {
		return nil, LockedStorageError{}
	}
	handles := make([]Handle, n)
	for i := range handles {
		h := sto.arena.Allocate()
		sto.ensureSlot(h.index)
		handles[i] = h
	}
	return handles, nil
}

// DestroyEntity clears every component plane and the slot's kind mask before
// freeing the arena slot, so a reused slot can never inherit stale components.
// Returns false when the handle is not alive.
func (sto *storage) DestroyEntity(h Handle) (bool, error) {
	if sto.locked {
		return false, LockedStorageError{}
	}
	if !sto.arena.Alive(h) {
		return false, nil
	}
	for row := range sto.planes {
		p := &sto.planes[row]
		if p.bits.Contains(h.index) {
			p.bits.Clear(h.index)
			p.rows[h.index] = nil
		}
	}
	sto.masks[h.index] = mask.Mask{}
	sto.arena.Free(h)
	return true, nil
}

// RetainEntities destroys every live entity the keep predicate rejects,
// visiting slots in ascending order, and returns the number destroyed.
func (sto *storage) RetainEntities(keep func(Handle) bool) (int, error) {
	if sto.locked {
		return 0, LockedStorageError{}
	}
	destroyed := 0
	for i := range sto.arena.slots {
		s := sto.arena.slots[i]
		if !s.occupied {
			continue
		}
		h := Handle{index: uint32(i), generation: s.generation}
		if keep(h) {
			continue
		}
		sto.DestroyEntity(h)
		destroyed++
	}
	return destroyed, nil
}

func (sto *storage) Alive(h Handle) bool {
	return sto.arena.Alive(h)
}

// Entities yields every live handle in ascending slot order.
func (sto *storage) Entities() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for i := range sto.arena.slots {
			s := sto.arena.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Handle{index: uint32(i), generation: s.generation}) {
				return
			}
		}
	}
}

// SetComponent stores value for the component on the entity, replacing any
// previous value. The value must be the boxed form produced by the component's
// accessor; AccessibleComponent.Insert is the normal entry point.
func (sto *storage) SetComponent(h Handle, c Component, value any) error {
	if sto.locked {
		return LockedStorageError{}
	}
	if !sto.arena.Alive(h) {
		return NotAliveError{Handle: h}
	}
	row, err := sto.schema.Register(c)
	if err != nil {
		return err
	}
	sto.ensurePlane(row)
	p := &sto.planes[row]
	p.ensureRow(h.index)
	p.rows[h.index] = value
	p.bits.Set(h.index)
	sto.masks[h.index].Mark(row)
	return nil
}

// RemoveComponent takes the component off the entity and returns its boxed
// value. Stale handles, absent components, and locked storage all report
// false; use EnqueueRemoveComponent while locked.
func (sto *storage) RemoveComponent(h Handle, c Component) (any, bool) {
	if sto.locked || !sto.arena.Alive(h) {
		return nil, false
	}
	row, ok := sto.schema.RowIndexFor(c)
	if !ok || int(row) >= len(sto.planes) {
		return nil, false
	}
	p := &sto.planes[row]
	if !p.bits.Contains(h.index) {
		return nil, false
	}
	value := p.rows[h.index]
	p.rows[h.index] = nil
	p.bits.Clear(h.index)
	sto.masks[h.index].Unmark(row)
	return value, true
}

// GetComponent returns the boxed component value. Reads are allowed while the
// storage is locked.
func (sto *storage) GetComponent(h Handle, c Component) (any, bool) {
	if !sto.arena.Alive(h) {
		return nil, false
	}
	row, ok := sto.schema.RowIndexFor(c)
	if !ok || int(row) >= len(sto.planes) {
		return nil, false
	}
	p := &sto.planes[row]
	if !p.bits.Contains(h.index) {
		return nil, false
	}
	return p.rows[h.index], true
}

func (sto *storage) ContainsComponent(h Handle, c Component) bool {
	_, ok := sto.GetComponent(h, c)
	return ok
}

func (sto *storage) RowIndexFor(c Component) (uint32, bool) {
	return sto.schema.RowIndexFor(c)
}

func (sto *storage) Locked() bool {
	return sto.locked
}

func (sto *storage) Lock() {
	sto.locked = true
}

// Unlock re-enables direct mutation and drains the operation queue: creations
// first, then component operations, then destroys.
func (sto *storage) Unlock() {
	sto.locked = false
	sto.processOperationQueue()
}

func (sto *storage) Capacity() int {
	return sto.arena.Capacity()
}

func (sto *storage) Count() int {
	return sto.arena.Count()
}

func (sto *storage) ensurePlane(row uint32) {
	for uint32(len(sto.planes)) <= row {
		sto.planes = append(sto.planes, plane{bits: newBitSet()})
	}
}

func (sto *storage) ensureSlot(index uint32) {
	if needed := int(index) + 1; needed > len(sto.masks) {
		if cap(sto.masks) < needed {
			// Grow by doubling or the needed size, whichever is larger
			newCap := max(needed, 2*cap(sto.masks))
			grown := make([]mask.Mask, len(sto.masks), newCap)
			copy(grown, sto.masks)
			sto.masks = grown
		}
		sto.masks = sto.masks[:needed]
	}
}
