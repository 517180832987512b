package stockpile

import "reflect"

type factory struct{}

var Factory factory

func (f factory) NewSchema() Schema {
	return newSchema()
}

func (f factory) NewStorage(schema Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewArena() Arena {
	return newArena()
}

func (f factory) NewBitSet() *BitSet {
	return newBitSet()
}

func (f factory) NewQuery(components ...Component) Query {
	return newQuery(components...)
}

func (f factory) NewCursor(query Query, storage Storage) *Cursor {
	return newCursor(query, storage)
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	kind := newComponentKind(reflect.TypeFor[T]())
	return AccessibleComponent[T]{Component: kind}
}
