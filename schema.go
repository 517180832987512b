package stockpile

// maxSchemaRows matches the width of mask.Mask; every registered kind owns one
// mask bit.
const maxSchemaRows = 64

var _ Schema = &schema{}

type schema struct {
	rows    map[ComponentID]uint32
	ordered []Component
}

func newSchema() *schema {
	return &schema{rows: make(map[ComponentID]uint32)}
}

// Register assigns the component its row index, registering it on first use.
func (s *schema) Register(c Component) (uint32, error) {
	if row, ok := s.rows[c.ID()]; ok {
		return row, nil
	}
	if len(s.ordered) >= maxSchemaRows {
		return 0, SchemaCapacityError{Capacity: maxSchemaRows}
	}
	row := uint32(len(s.ordered))
	s.rows[c.ID()] = row
	s.ordered = append(s.ordered, c)
	return row, nil
}

// RowIndexFor returns the row index of an already registered component.
func (s *schema) RowIndexFor(c Component) (uint32, bool) {
	row, ok := s.rows[c.ID()]
	return row, ok
}

// ComponentAt returns the component registered at the given row.
func (s *schema) ComponentAt(row uint32) (Component, bool) {
	if row >= uint32(len(s.ordered)) {
		return nil, false
	}
	return s.ordered[row], true
}

// Registered returns the number of registered kinds.
func (s *schema) Registered() int {
	return len(s.ordered)
}
