package stockpile

import (
	"iter"
	"math/bits"
)

// And returns the intersection view of the given bitsets. Each summary word of
// the view is the AND of the operands' words, so a BitIter over it descends
// into a block only when every operand has at least one bit there.
func And(sets ...BitSetLike) BitSetLike {
	switch len(sets) {
	case 0:
		return emptyBitSet{}
	case 1:
		return sets[0]
	}
	return bitSetAnd{sets: sets}
}

type bitSetAnd struct {
	sets []BitSetLike
}

func (b bitSetAnd) Word(layer int, index uint32) uint64 {
	word := b.sets[0].Word(layer, index)
	for _, s := range b.sets[1:] {
		if word == 0 {
			return 0
		}
		word &= s.Word(layer, index)
	}
	return word
}

type emptyBitSet struct{}

func (emptyBitSet) Word(int, uint32) uint64 { return 0 }

// BitIter yields set indices in ascending order. It walks the summary layers
// top-down, so runs of empty blocks cost one word test instead of a scan; the
// cost is proportional to set bits plus visited blocks, not capacity.
//
// The iterator caches one word per layer. Bits cleared behind an already
// cached word may still be yielded; callers that mutate mid-iteration must
// re-validate yielded indices (the join cursor does).
type BitIter struct {
	set    BitSetLike
	masks  [bitsetLayers]uint64
	prefix [bitsetLayers]uint32
}

// NewBitIter starts an ascending iteration over set. Iteration is restarted by
// constructing a new iterator.
func NewBitIter(set BitSetLike) *BitIter {
	it := &BitIter{set: set}
	it.masks[bitsetLayers-1] = set.Word(bitsetLayers-1, 0)
	return it
}

// Next returns the next set index, or false when exhausted.
func (it *BitIter) Next() (uint32, bool) {
	layer := 0
	for layer < bitsetLayers {
		m := it.masks[layer]
		if m == 0 {
			layer++
			continue
		}
		bit := uint32(bits.TrailingZeros64(m))
		it.masks[layer] = m & (m - 1)
		index := it.prefix[layer] | bit
		if layer == 0 {
			return index, true
		}
		layer--
		it.masks[layer] = it.set.Word(layer, index)
		it.prefix[layer] = index << wordShift
	}
	return 0, false
}

// Indices adapts a bitset view to a range-over-func sequence.
func Indices(set BitSetLike) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := NewBitIter(set)
		for index, ok := it.Next(); ok; index, ok = it.Next() {
			if !yield(index) {
				return
			}
		}
	}
}
