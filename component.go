package stockpile

import (
	"reflect"
	"sync"
)

// ComponentID is the process-wide identity of a component kind.
type ComponentID uint32

type componentKind struct {
	id  ComponentID
	typ reflect.Type
}

func (k componentKind) ID() ComponentID {
	return k.id
}

func (k componentKind) Type() reflect.Type {
	return k.typ
}

func (k componentKind) Label() string {
	return k.typ.String()
}

// One kind per Go type: declaring the same component type twice yields
// accessors sharing identity, which keeps schema rows and snapshot labels
// stable.
var kindRegistry = struct {
	mu     sync.Mutex
	byType map[reflect.Type]componentKind
	next   ComponentID
}{byType: make(map[reflect.Type]componentKind)}

func newComponentKind(typ reflect.Type) componentKind {
	kindRegistry.mu.Lock()
	defer kindRegistry.mu.Unlock()
	if kind, ok := kindRegistry.byType[typ]; ok {
		return kind
	}
	kind := componentKind{id: kindRegistry.next, typ: typ}
	kindRegistry.next++
	kindRegistry.byType[typ] = kind
	return kind
}
