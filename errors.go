package stockpile

import "fmt"

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type NotAliveError struct {
	Handle Handle
}

func (e NotAliveError) Error() string {
	return fmt.Sprintf("%v does not reference a live entity", e.Handle)
}

type SchemaCapacityError struct {
	Capacity int
}

func (e SchemaCapacityError) Error() string {
	return fmt.Sprintf("schema is at maximum capacity (%d component kinds)", e.Capacity)
}

type ComponentNotRegisteredError struct {
	Label string
}

func (e ComponentNotRegisteredError) Error() string {
	return fmt.Sprintf("component is not registered: %s", e.Label)
}

// InvalidSnapshotError reports a snapshot whose contents are internally
// inconsistent, such as a payload row pointing outside the slot table.
type InvalidSnapshotError struct {
	Label  string
	Index  uint32
	Reason string
}

func (e InvalidSnapshotError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("invalid snapshot: slot %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid snapshot: %s row %d: %s", e.Label, e.Index, e.Reason)
}
