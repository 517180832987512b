package stockpile

import (
	"iter"
	"reflect"
)

type Storage interface {
	NewEntity() (Handle, error)
	NewEntities(n int) ([]Handle, error)
	DestroyEntity(Handle) (bool, error)
	RetainEntities(keep func(Handle) bool) (int, error)
	Alive(Handle) bool
	Entities() iter.Seq[Handle]
	SetComponent(Handle, Component, any) error
	RemoveComponent(Handle, Component) (any, bool)
	GetComponent(Handle, Component) (any, bool)
	ContainsComponent(Handle, Component) bool
	RowIndexFor(Component) (uint32, bool)
	EnqueueNewEntities(int) error
	EnqueueSetComponent(Handle, Component, any) error
	EnqueueRemoveComponent(Handle, Component) error
	EnqueueDestroyEntity(Handle) error
	Locked() bool
	Lock()
	Unlock()
	TakeSnapshot() (Snapshot, error)
	RestoreSnapshot(Snapshot, ...Component) error
	Capacity() int
	Count() int
}

// Arena allocates generation-tagged entity slots. It knows nothing about
// components; higher layers validate handles through it.
type Arena interface {
	Allocate() Handle
	Free(Handle) bool
	Alive(Handle) bool
	Generation(index uint32) (uint32, bool)
	Occupied(index uint32) bool
	Capacity() int
	Count() int
}

// Component identifies a component kind. Kinds are declared once, typically as
// package-level values via FactoryNewComponent, and shared across storages.
type Component interface {
	ID() ComponentID
	Type() reflect.Type
	Label() string
}

// Schema maps component kinds to row indices within a storage.
type Schema interface {
	Register(Component) (uint32, error)
	RowIndexFor(Component) (uint32, bool)
	ComponentAt(uint32) (Component, bool)
	Registered() int
}

// Query is a fixed set of component kinds to intersect. Queries are always an
// explicit kind set; there is no expression language.
type Query interface {
	Components() []Component
}

// BitSetLike is a read-only view of a hierarchical bitset. Word returns the
// 64-bit word at the given layer; out-of-range words are zero. Compositions
// (see And) answer Word per layer, which lets iteration skip blocks that are
// empty in any operand without materializing an intersection.
type BitSetLike interface {
	Word(layer int, index uint32) uint64
}

type iCursor interface {
	Handles() iter.Seq[Handle]
	Next() bool
}
