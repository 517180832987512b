package stockpile

import (
	"math/rand"
	"slices"
	"testing"

	iterutil "github.com/TheBitDrifter/util/iter"
)

// checkSummaries verifies the hierarchy invariant: a layer-k bit is set iff
// its underlying layer-(k-1) word is non-zero.
func checkSummaries(t *testing.T, b *BitSet) {
	t.Helper()
	for layer := 1; layer < bitsetLayers; layer++ {
		below := b.layers[layer-1]
		for wordIndex := range below {
			summaryBit := b.Word(layer, uint32(wordIndex)>>wordShift) & (1 << (uint32(wordIndex) & wordMask))
			if (below[wordIndex] != 0) != (summaryBit != 0) {
				t.Fatalf("layer %d word %d: summary bit disagrees with word %#x", layer-1, wordIndex, below[wordIndex])
			}
		}
	}
}

func TestBitSetSetClearContains(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
	}{
		{name: "Single word", indices: []uint32{0, 1, 63}},
		{name: "Word boundaries", indices: []uint32{63, 64, 127, 128}},
		{name: "Block boundaries", indices: []uint32{4095, 4096, 262143, 262144}},
		{name: "Sparse", indices: []uint32{0, 1000, 100000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBitSet()
			for _, index := range tt.indices {
				b.Set(index)
			}
			for _, index := range tt.indices {
				if !b.Contains(index) {
					t.Errorf("expected index %d to be set", index)
				}
			}
			checkSummaries(t, b)

			for _, index := range tt.indices {
				b.Clear(index)
				if b.Contains(index) {
					t.Errorf("expected index %d to be clear", index)
				}
			}
			checkSummaries(t, b)
			if !b.IsEmpty() {
				t.Error("expected bitset to be empty after clearing everything")
			}
		})
	}
}

func TestBitSetOutOfRangeQueries(t *testing.T) {
	b := newBitSet()
	b.Set(10)

	if b.Contains(1 << 20) {
		t.Error("expected index past capacity to read as unset")
	}
	// Clearing past capacity is a no-op, never an error
	b.Clear(1 << 20)
	if !b.Contains(10) {
		t.Error("expected out-of-range clear to leave existing bits alone")
	}
}

func TestBitSetGrowthPreservesBits(t *testing.T) {
	b := newBitSet()
	early := []uint32{0, 5, 64, 4095}
	for _, index := range early {
		b.Set(index)
	}
	b.Set(200000)
	for _, index := range early {
		if !b.Contains(index) {
			t.Errorf("expected index %d to survive capacity growth", index)
		}
	}
	checkSummaries(t, b)
}

func TestBitSetIterMatchesNaiveScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := newBitSet()
	reference := make(map[uint32]bool)

	for i := 0; i < 2000; i++ {
		index := uint32(rng.Intn(150000))
		if rng.Intn(3) == 0 {
			b.Clear(index)
			delete(reference, index)
		} else {
			b.Set(index)
			reference[index] = true
		}
	}
	checkSummaries(t, b)

	want := make([]uint32, 0, len(reference))
	for index := range reference {
		want = append(want, index)
	}
	slices.Sort(want)

	got := iterutil.Collect(Indices(b))
	if !slices.Equal(got, want) {
		t.Fatalf("iteration mismatch: got %d indices, want %d", len(got), len(want))
	}
}

func TestBitSetIterAscendingSparse(t *testing.T) {
	b := newBitSet()
	indices := []uint32{0, 63, 64, 4095, 4096, 100000}
	for _, index := range indices {
		b.Set(index)
	}

	got := iterutil.Collect(Indices(b))
	if !slices.Equal(got, indices) {
		t.Fatalf("expected %v, got %v", indices, got)
	}
}

func TestBitSetIterRestartable(t *testing.T) {
	b := newBitSet()
	b.Set(3)
	b.Set(70)

	first := iterutil.Collect(Indices(b))
	second := iterutil.Collect(Indices(b))
	if !slices.Equal(first, second) {
		t.Fatalf("expected restarted iteration to repeat %v, got %v", first, second)
	}
}

func TestBitSetAnd(t *testing.T) {
	tests := []struct {
		name string
		a    []uint32
		b    []uint32
		c    []uint32
		want []uint32
	}{
		{
			name: "Pairwise overlap",
			a:    []uint32{1, 2, 3, 100, 5000},
			b:    []uint32{2, 3, 99, 5000},
			c:    []uint32{2, 3, 5000, 70000},
			want: []uint32{2, 3, 5000},
		},
		{
			name: "Disjoint blocks",
			a:    []uint32{0, 1, 2},
			b:    []uint32{100000, 100001},
			c:    []uint32{0, 100000},
			want: nil,
		},
		{
			name: "Empty operand",
			a:    []uint32{1, 2, 3},
			b:    nil,
			c:    []uint32{1, 2, 3},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets := make([]BitSetLike, 3)
			for i, indices := range [][]uint32{tt.a, tt.b, tt.c} {
				b := newBitSet()
				for _, index := range indices {
					b.Set(index)
				}
				sets[i] = b
			}
			got := iterutil.Collect(Indices(And(sets...)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBitSetAndMatchesReferenceIntersection(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const universe = 50000

	counts := make(map[uint32]int)
	sets := make([]BitSetLike, 3)
	for i := range sets {
		b := newBitSet()
		for j := 0; j < 3000; j++ {
			index := uint32(rng.Intn(universe))
			if !b.Contains(index) {
				b.Set(index)
				counts[index]++
			}
		}
		sets[i] = b
	}

	var want []uint32
	for index, n := range counts {
		if n == len(sets) {
			want = append(want, index)
		}
	}
	slices.Sort(want)

	got := iterutil.Collect(Indices(And(sets...)))
	if !slices.Equal(got, want) {
		t.Fatalf("intersection mismatch: got %d indices, want %d", len(got), len(want))
	}
}

func TestBitSetClearCascades(t *testing.T) {
	b := newBitSet()
	b.Set(70000)
	b.Clear(70000)

	if !b.IsEmpty() {
		t.Fatal("expected bitset to be empty")
	}
	for layer := 0; layer < bitsetLayers; layer++ {
		for wordIndex, word := range b.layers[layer] {
			if word != 0 {
				t.Errorf("layer %d word %d: expected zero, got %#x", layer, wordIndex, word)
			}
		}
	}
}
