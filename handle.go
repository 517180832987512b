package stockpile

import "fmt"

// Handle is a stable, generation-tagged reference to an entity slot. Handles
// are plain comparable values: copy them freely, use them as map keys. Holding
// a handle past DestroyEntity is legal; it simply stops matching the slot's
// current generation and Alive reports false.
type Handle struct {
	index      uint32
	generation uint32
}

// HandleFromParts reconstructs a handle from raw parts. Intended for snapshot
// tooling and tests; handles are normally issued by a Storage or Arena.
func HandleFromParts(index, generation uint32) Handle {
	return Handle{index: index, generation: generation}
}

// Index returns the slot index the handle refers to.
func (h Handle) Index() uint32 {
	return h.index
}

// Generation returns the generation the handle was issued at.
func (h Handle) Generation() uint32 {
	return h.generation
}

func (h Handle) String() string {
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}
