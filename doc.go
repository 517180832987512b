/*
Package stockpile provides sparse, generation-safe component storage for entities.

Unlike archetype storages that group entities by component layout, stockpile keeps
every component kind in its own plane: a hierarchical bitset tracking which slots
hold the component, plus a payload row per slot. Entities keep a fixed slot for
their whole lifetime, so handles stay cheap, comparable, and safe to retain —
a handle to a destroyed entity is detectably stale, never silently reused.

Core Concepts:

  - Handle: A generation-tagged reference to an entity slot.
  - Arena: The slot allocator; the sole authority on handle validity.
  - Component: A data container that defines entity attributes.
  - BitSet: A hierarchical presence index enabling block-skipping iteration.
  - Query/Cursor: Multi-component intersection over live entities.

Basic Usage:

	// Create storage with schema
	schema := stockpile.Factory.NewSchema()
	storage := stockpile.Factory.NewStorage(schema)

	// Define components
	position := stockpile.FactoryNewComponent[Position]()
	velocity := stockpile.FactoryNewComponent[Velocity]()

	// Create an entity and attach components
	player, _ := storage.NewEntity()
	position.Insert(storage, player, Position{X: 1, Y: 2})
	velocity.Insert(storage, player, Velocity{X: 0.5})

	// Query entities holding both components
	query := stockpile.Factory.NewQuery(position, velocity)
	cursor := stockpile.Factory.NewCursor(query, storage)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

The storage is single-threaded: operations never block and perform no I/O. If
shared across goroutines, all writes must be serialized by one exclusive lock,
and reads must not overlap writes. The Lock/Unlock mechanism on Storage is
reentrancy control for iteration-time mutation, not thread safety: while locked,
direct mutations are rejected and Enqueue variants buffer operations that are
applied on Unlock.

Stockpile is a companion storage library for the Bappa Framework but works
standalone.
*/
package stockpile
