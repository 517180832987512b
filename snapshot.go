package stockpile

import (
	"fmt"
	"io"

	"github.com/TheBitDrifter/mask"
	iterutil "github.com/TheBitDrifter/util/iter"
	"gopkg.in/yaml.v3"
)

// Snapshot is a serializable capture of a storage: every slot's occupancy and
// generation, the free-list order, and each kind's payload rows. Restoring
// preserves generations and reuse order exactly, so a handle captured before
// the snapshot is valid or stale identically after, and future slot reuse
// proceeds in the same order.
type Snapshot struct {
	Slots      []SlotSnapshot      `yaml:"slots"`
	FreeList   []uint32            `yaml:"freeList"`
	Components []ComponentSnapshot `yaml:"components"`
}

type SlotSnapshot struct {
	Generation uint32 `yaml:"generation"`
	Occupied   bool   `yaml:"occupied"`
}

type ComponentSnapshot struct {
	Label string        `yaml:"label"`
	Rows  []RowSnapshot `yaml:"rows"`
}

type RowSnapshot struct {
	Index uint32    `yaml:"index"`
	Value yaml.Node `yaml:"value"`
}

type snapshotDecoder interface {
	decodeValue(node *yaml.Node) (any, error)
}

// TakeSnapshot captures the full storage state. Payloads are encoded as yaml
// nodes; a payload type yaml cannot represent is an error.
func (sto *storage) TakeSnapshot() (Snapshot, error) {
	snap := Snapshot{
		Slots:    make([]SlotSnapshot, len(sto.arena.slots)),
		FreeList: append([]uint32(nil), sto.arena.free...),
	}
	for i, s := range sto.arena.slots {
		snap.Slots[i] = SlotSnapshot{Generation: s.generation, Occupied: s.occupied}
	}
	for row := range sto.planes {
		component, ok := sto.schema.ComponentAt(uint32(row))
		if !ok {
			continue
		}
		p := &sto.planes[row]
		indices := iterutil.Collect(Indices(p.bits))
		rows := make([]RowSnapshot, 0, len(indices))
		for _, index := range indices {
			var node yaml.Node
			if err := node.Encode(p.rows[index]); err != nil {
				return Snapshot{}, fmt.Errorf("failed to encode %s row %d: %w", component.Label(), index, err)
			}
			rows = append(rows, RowSnapshot{Index: index, Value: node})
		}
		snap.Components = append(snap.Components, ComponentSnapshot{
			Label: component.Label(),
			Rows:  rows,
		})
	}
	return snap, nil
}

// RestoreSnapshot replaces the storage's entity state with the snapshot's.
// Every component label appearing in the snapshot must be matched by one of
// the given components, which supply the typed decoders for payload rows.
// On error the storage is untouched: every label, row index, and payload is
// validated and decoded before any state is replaced.
func (sto *storage) RestoreSnapshot(snap Snapshot, components ...Component) error {
	if sto.locked {
		return LockedStorageError{}
	}
	byLabel := make(map[string]Component, len(components))
	for _, component := range components {
		byLabel[component.Label()] = component
	}

	for _, index := range snap.FreeList {
		if int(index) >= len(snap.Slots) {
			return InvalidSnapshotError{Index: index, Reason: "free-list entry outside the slot table"}
		}
		if snap.Slots[index].Occupied {
			return InvalidSnapshotError{Index: index, Reason: "free-list entry names an occupied slot"}
		}
	}

	type stagedRow struct {
		index uint32
		value any
	}
	type stagedComponent struct {
		component Component
		rows      []stagedRow
	}
	staged := make([]stagedComponent, 0, len(snap.Components))
	newKinds := make(map[ComponentID]struct{})
	for _, cs := range snap.Components {
		component, ok := byLabel[cs.Label]
		if !ok {
			return ComponentNotRegisteredError{Label: cs.Label}
		}
		decoder, ok := component.(snapshotDecoder)
		if !ok {
			return fmt.Errorf("component %s cannot decode snapshot payloads", cs.Label)
		}
		if _, ok := sto.schema.RowIndexFor(component); !ok {
			newKinds[component.ID()] = struct{}{}
		}
		rows := make([]stagedRow, 0, len(cs.Rows))
		for _, rs := range cs.Rows {
			if int(rs.Index) >= len(snap.Slots) {
				return InvalidSnapshotError{Label: cs.Label, Index: rs.Index, Reason: "row outside the slot table"}
			}
			if !snap.Slots[rs.Index].Occupied {
				return InvalidSnapshotError{Label: cs.Label, Index: rs.Index, Reason: "row on an unoccupied slot"}
			}
			value, err := decoder.decodeValue(&rs.Value)
			if err != nil {
				return fmt.Errorf("failed to decode %s row %d: %w", cs.Label, rs.Index, err)
			}
			rows = append(rows, stagedRow{index: rs.Index, value: value})
		}
		staged = append(staged, stagedComponent{component: component, rows: rows})
	}
	if sto.schema.Registered()+len(newKinds) > maxSchemaRows {
		return SchemaCapacityError{Capacity: maxSchemaRows}
	}

	restored := newArena()
	restored.slots = make([]slot, len(snap.Slots))
	for i, s := range snap.Slots {
		restored.slots[i] = slot{generation: s.Generation, occupied: s.Occupied}
		if s.Occupied {
			restored.count++
		}
	}
	restored.free = append([]uint32(nil), snap.FreeList...)

	sto.arena = restored
	sto.planes = nil
	sto.masks = make([]mask.Mask, len(snap.Slots))

	for _, sc := range staged {
		// Cannot fail: capacity was checked above
		row, _ := sto.schema.Register(sc.component)
		sto.ensurePlane(row)
		p := &sto.planes[row]
		for _, sr := range sc.rows {
			p.ensureRow(sr.index)
			p.rows[sr.index] = sr.value
			p.bits.Set(sr.index)
			sto.masks[sr.index].Mark(row)
		}
	}
	return nil
}

// EncodeSnapshot writes the snapshot as a yaml document.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// DecodeSnapshot reads a snapshot from a yaml document.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
