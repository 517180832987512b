package stockpile

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type stubKind struct {
	id ComponentID
}

func (k stubKind) ID() ComponentID    { return k.id }
func (k stubKind) Type() reflect.Type { return reflect.TypeFor[int]() }
func (k stubKind) Label() string      { return fmt.Sprintf("stub-%d", k.id) }

func TestSchemaAssignsStableRows(t *testing.T) {
	s := newSchema()

	first, err := s.Register(stubKind{id: 1})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	second, err := s.Register(stubKind{id: 2})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first != 0 || second != 1 {
		t.Errorf("expected rows 0 and 1, got %d and %d", first, second)
	}

	// Re-registration is idempotent
	again, err := s.Register(stubKind{id: 1})
	if err != nil || again != first {
		t.Errorf("expected row %d on re-registration, got %d (err=%v)", first, again, err)
	}

	row, ok := s.RowIndexFor(stubKind{id: 2})
	if !ok || row != second {
		t.Errorf("expected RowIndexFor to find row %d, got %d (ok=%v)", second, row, ok)
	}
	if _, ok := s.RowIndexFor(stubKind{id: 99}); ok {
		t.Error("expected unknown kind to be unregistered")
	}

	kind, ok := s.ComponentAt(second)
	if !ok || kind.ID() != 2 {
		t.Errorf("expected ComponentAt(%d) to return kind 2, got %v (ok=%v)", second, kind, ok)
	}
	if s.Registered() != 2 {
		t.Errorf("expected 2 registered kinds, got %d", s.Registered())
	}
}

func TestSchemaCapacity(t *testing.T) {
	s := newSchema()
	for i := 0; i < maxSchemaRows; i++ {
		if _, err := s.Register(stubKind{id: ComponentID(i)}); err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
	}

	_, err := s.Register(stubKind{id: ComponentID(maxSchemaRows)})
	var capErr SchemaCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected SchemaCapacityError, got %v", err)
	}
	if capErr.Capacity != maxSchemaRows {
		t.Errorf("expected capacity %d in error, got %d", maxSchemaRows, capErr.Capacity)
	}

	// Existing kinds keep working at capacity
	if _, err := s.Register(stubKind{id: 0}); err != nil {
		t.Errorf("expected re-registration to succeed at capacity, got %v", err)
	}
}
