package stockpile

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

var _ iCursor = &Cursor{}

// Cursor iterates the entities holding every component of a query, in
// ascending slot order. It walks the intersection of the kinds' presence
// bitsets and re-validates each candidate against the arena and the slot's
// kind mask, so entities destroyed by reentrant callbacks mid-iteration are
// skipped rather than yielded with stale data.
type Cursor struct {
	// The query to intersect
	query Query

	// The storage to iterate over
	storage Storage

	// Current iteration state
	iter      *BitIter
	queryMask mask.Mask
	current   Handle

	// Initialization state
	initialized bool
	empty       bool
}

func newCursor(query Query, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

// Next advances to the next matching entity, returning false when exhausted.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.empty {
		return false
	}
	sto := c.storage.(*storage)
	for {
		index, ok := c.iter.Next()
		if !ok {
			return false
		}
		// Presence words may be cached from before a reentrant destroy;
		// the arena and the slot's kind mask are the source of truth.
		if !sto.arena.Occupied(index) {
			continue
		}
		if !sto.masks[index].ContainsAll(c.queryMask) {
			continue
		}
		generation, _ := sto.arena.Generation(index)
		c.current = Handle{index: index, generation: generation}
		return true
	}
}

// CurrentHandle returns the handle at the cursor position. Valid after a Next
// that returned true.
func (c *Cursor) CurrentHandle() Handle {
	return c.current
}

// Handles adapts the cursor to a range-over-func sequence. The cursor resets
// when the sequence ends or the caller breaks.
func (c *Cursor) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for c.Next() {
			if !yield(c.current) {
				c.Reset()
				return
			}
		}
		c.Reset()
	}
}

// TotalMatched counts matching entities without disturbing cursor state or
// fetching payloads.
func (c *Cursor) TotalMatched() int {
	other := newCursor(c.query, c.storage)
	total := 0
	for other.Next() {
		total++
	}
	return total
}

// Reset rewinds the cursor for reuse.
func (c *Cursor) Reset() {
	c.iter = nil
	c.queryMask = mask.Mask{}
	c.current = Handle{}
	c.initialized = false
	c.empty = false
}

func (c *Cursor) initialize() {
	c.initialized = true
	components := c.query.Components()
	if len(components) == 0 {
		c.empty = true
		return
	}
	sto := c.storage.(*storage)
	sets := make([]BitSetLike, 0, len(components))
	for _, component := range components {
		row, ok := sto.schema.RowIndexFor(component)
		if !ok || int(row) >= len(sto.planes) {
			// Kind never inserted anywhere: the intersection is empty.
			c.empty = true
			return
		}
		c.queryMask.Mark(row)
		sets = append(sets, sto.planes[row].bits)
	}
	c.iter = NewBitIter(And(sets...))
}
