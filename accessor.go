package stockpile

import "gopkg.in/yaml.v3"

// AccessibleComponent pairs a component kind with typed access to its
// payloads. The pointers it returns are live views into storage: mutating
// through them is how payloads are edited in place, but presence never changes
// through a view — only Remove clears a component.
type AccessibleComponent[T any] struct {
	Component
}

// Insert stores value on the entity, replacing any previous value.
func (c AccessibleComponent[T]) Insert(sto Storage, h Handle, value T) error {
	return sto.SetComponent(h, c.Component, &value)
}

// Get returns a mutable view of the entity's component, or false when the
// handle is stale or the component absent.
func (c AccessibleComponent[T]) Get(sto Storage, h Handle) (*T, bool) {
	value, ok := sto.GetComponent(h, c.Component)
	if !ok {
		return nil, false
	}
	return value.(*T), true
}

// Remove takes the component off the entity and returns the removed value.
func (c AccessibleComponent[T]) Remove(sto Storage, h Handle) (T, bool) {
	value, ok := sto.RemoveComponent(h, c.Component)
	if !ok {
		var zero T
		return zero, false
	}
	return *(value.(*T)), true
}

// Has reports whether the entity currently holds the component.
func (c AccessibleComponent[T]) Has(sto Storage, h Handle) bool {
	return sto.ContainsComponent(h, c.Component)
}

// EnqueueInsert defers the insert while the storage is locked.
func (c AccessibleComponent[T]) EnqueueInsert(sto Storage, h Handle, value T) error {
	return sto.EnqueueSetComponent(h, c.Component, &value)
}

// EnqueueRemove defers the removal while the storage is locked.
func (c AccessibleComponent[T]) EnqueueRemove(sto Storage, h Handle) error {
	return sto.EnqueueRemoveComponent(h, c.Component)
}

// GetFromCursor retrieves the component for the entity at the cursor
// position. Returns nil when the entity does not hold it (possible for kinds
// outside the cursor's query).
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	value, ok := cursor.storage.GetComponent(cursor.CurrentHandle(), c.Component)
	if !ok {
		return nil
	}
	return value.(*T)
}

// decodeValue restores a payload captured as a yaml node into the concrete
// component type. Part of the snapshot restore path.
func (c AccessibleComponent[T]) decodeValue(node *yaml.Node) (any, error) {
	value := new(T)
	if err := node.Decode(value); err != nil {
		return nil, err
	}
	return value, nil
}
