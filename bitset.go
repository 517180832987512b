package stockpile

const (
	bitsetLayers = 4
	wordShift    = 6
	wordMask     = 1<<wordShift - 1
)

// MaxBitSetIndex is the largest index a BitSet can hold: four layers of 64-way
// fan-out address 64^4 bits.
const MaxBitSetIndex = 1<<(wordShift*bitsetLayers) - 1

// BitSet is a hierarchical bitset. Layer 0 holds one bit per index; each word
// of layer k+1 summarizes 64 words of layer k (a summary bit is set iff its
// underlying word is non-zero), up to a single top word. The summaries let
// iteration and intersection skip whole empty blocks instead of scanning every
// layer-0 word.
//
// Layers grow transparently as indices are set. Querying or clearing beyond
// the current capacity is a valid no-op. Indices above MaxBitSetIndex panic;
// they are far outside the entity counts this storage is designed for.
type BitSet struct {
	layers [bitsetLayers][]uint64
}

var _ BitSetLike = &BitSet{}

func newBitSet() *BitSet {
	return &BitSet{}
}

// Word returns the word at the given layer, or zero when out of range.
func (b *BitSet) Word(layer int, index uint32) uint64 {
	words := b.layers[layer]
	if index >= uint32(len(words)) {
		return 0
	}
	return words[index]
}

// Set sets the bit at index and restores the summary invariant upward. The
// propagation exits as soon as a word was already non-empty, since every
// summary above it is set already; most calls touch only layer 0.
func (b *BitSet) Set(index uint32) {
	b.grow(index)
	for layer := 0; layer < bitsetLayers; layer++ {
		wordIndex := index >> wordShift
		word := &b.layers[layer][wordIndex]
		wasEmpty := *word == 0
		*word |= 1 << (index & wordMask)
		if !wasEmpty {
			return
		}
		index = wordIndex
	}
}

// Clear clears the bit at index, cascading summary clears upward only while
// words become empty.
func (b *BitSet) Clear(index uint32) {
	for layer := 0; layer < bitsetLayers; layer++ {
		wordIndex := index >> wordShift
		words := b.layers[layer]
		if wordIndex >= uint32(len(words)) {
			return
		}
		words[wordIndex] &^= 1 << (index & wordMask)
		if words[wordIndex] != 0 {
			return
		}
		index = wordIndex
	}
}

// Contains reports whether the bit at index is set. O(1), layer 0 only.
func (b *BitSet) Contains(index uint32) bool {
	wordIndex := index >> wordShift
	words := b.layers[0]
	if wordIndex >= uint32(len(words)) {
		return false
	}
	return words[wordIndex]&(1<<(index&wordMask)) != 0
}

// IsEmpty reports whether no bits are set.
func (b *BitSet) IsEmpty() bool {
	return b.Word(bitsetLayers-1, 0) == 0
}

func (b *BitSet) grow(index uint32) {
	if index > MaxBitSetIndex {
		panic("stockpile: bitset index out of range")
	}
	for layer := 0; layer < bitsetLayers; layer++ {
		index >>= wordShift
		if needed := index + 1; needed > uint32(len(b.layers[layer])) {
			grown := make([]uint64, needed)
			copy(grown, b.layers[layer])
			b.layers[layer] = grown
		}
	}
}
