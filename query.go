package stockpile

var _ Query = &query{}

type query struct {
	components []Component
}

func newQuery(components ...Component) Query {
	return &query{components: components}
}

// Components returns the kinds this query intersects. An empty query matches
// nothing; use Storage.Entities to walk every live entity.
func (q *query) Components() []Component {
	return q.components
}
