package stockpile

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opSetComponent
	opRemoveComponent
)

type operation struct {
	typ       operationType
	amount    int
	handle    Handle
	component Component
	value     any
}

type opKey struct {
	handle    Handle
	component ComponentID
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[Handle]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Handle]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

// EnqueueNewEntities buffers entity creation while the storage is locked;
// when unlocked it creates directly.
func (sto *storage) EnqueueNewEntities(n int) error {
	if !sto.locked {
		_, err := sto.NewEntities(n)
		return err
	}
	sto.opQueue.createOps = append(sto.opQueue.createOps, operation{
		typ:    opCreate,
		amount: n,
	})
	return nil
}

// EnqueueSetComponent buffers a component write while the storage is locked.
// The kind is registered immediately so schema errors surface at enqueue time
// and the drain cannot fail.
func (sto *storage) EnqueueSetComponent(h Handle, c Component, value any) error {
	if !sto.locked {
		return sto.SetComponent(h, c, value)
	}
	if _, err := sto.schema.Register(c); err != nil {
		return err
	}
	sto.opQueue.enqueueComponentOp(opSetComponent, h, c, value)
	return nil
}

// EnqueueRemoveComponent buffers a component removal while the storage is
// locked. The removed value is discarded on the deferred path.
func (sto *storage) EnqueueRemoveComponent(h Handle, c Component) error {
	if !sto.locked {
		sto.RemoveComponent(h, c)
		return nil
	}
	sto.opQueue.enqueueComponentOp(opRemoveComponent, h, c, nil)
	return nil
}

// EnqueueDestroyEntity buffers destruction while the storage is locked.
// Duplicate destroys coalesce, and any pending component operations for the
// handle are cancelled.
func (sto *storage) EnqueueDestroyEntity(h Handle) error {
	if !sto.locked {
		sto.DestroyEntity(h)
		return nil
	}
	sto.opQueue.enqueueDestroy(h)
	return nil
}

func (q *opQueue) enqueueComponentOp(typ operationType, h Handle, c Component, value any) {
	if _, destroyed := q.pendingDestroy[h]; destroyed {
		return
	}
	key := opKey{handle: h, component: c.ID()}
	if existing, ok := q.pendingMods[key]; ok {
		// Last write wins per (handle, kind)
		q.componentOps[existing].typ = typ
		q.componentOps[existing].value = value
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:       typ,
		handle:    h,
		component: c,
		value:     value,
	})
}

func (q *opQueue) enqueueDestroy(h Handle) {
	if _, exists := q.pendingDestroy[h]; exists {
		return
	}
	q.pendingDestroy[h] = struct{}{}
	for key, idx := range q.pendingMods {
		if key.handle == h {
			q.componentOps[idx].typ = -1
			delete(q.pendingMods, key)
		}
	}
	q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, handle: h})
}

// processOperationQueue drains in creation, modification, destruction order.
// Operations on handles destroyed before the drain are skipped silently; the
// enqueue path already validated everything else.
func (sto *storage) processOperationQueue() {
	if len(sto.opQueue.createOps) == 0 &&
		len(sto.opQueue.componentOps) == 0 &&
		len(sto.opQueue.destroyOps) == 0 {
		return
	}

	for _, op := range sto.opQueue.createOps {
		sto.NewEntities(op.amount)
	}

	for _, op := range sto.opQueue.componentOps {
		if !sto.arena.Alive(op.handle) {
			continue
		}
		switch op.typ {
		case opSetComponent:
			sto.SetComponent(op.handle, op.component, op.value)
		case opRemoveComponent:
			sto.RemoveComponent(op.handle, op.component)
		}
	}

	for _, op := range sto.opQueue.destroyOps {
		sto.DestroyEntity(op.handle)
	}

	sto.opQueue.createOps = sto.opQueue.createOps[:0]
	sto.opQueue.componentOps = sto.opQueue.componentOps[:0]
	sto.opQueue.destroyOps = sto.opQueue.destroyOps[:0]
	clear(sto.opQueue.pendingDestroy)
	clear(sto.opQueue.pendingMods)
}
