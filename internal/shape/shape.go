package shape

import (
	"sync"

	"github.com/funvibe/adaptive/internal/profile"
)

// Shape is an ordered field layout. Adding a field moves an object to a
// child shape; children are cached so objects with the same history end up
// on the same Shape.
type Shape struct {
	table  *Table
	parent *Shape
	fields []LocationID
	index  map[string]LocationID

	mu          sync.RWMutex
	transitions map[string]*Shape
}

// NewRoot returns the empty shape every object starts from.
func NewRoot(table *Table) *Shape {
	return &Shape{table: table, index: map[string]LocationID{}}
}

func (s *Shape) Table() *Table { return s.table }

// NumFields is also the number of physical slots an object of s needs.
func (s *Shape) NumFields() int { return len(s.fields) }

// Lookup finds the location of name in O(1).
func (s *Shape) Lookup(name string) (LocationID, bool) {
	id, ok := s.index[name]
	return id, ok
}

// FieldNames returns names in definition order.
func (s *Shape) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, id := range s.fields {
		names[i] = s.table.Location(id).name
	}
	return names
}

// withField returns the child shape that adds name. The location kind is
// fixed by whichever object takes the transition first.
func (s *Shape) withField(name string, kind Kind) *Shape {
	s.mu.RLock()
	child, ok := s.transitions[name]
	s.mu.RUnlock()
	if ok {
		return child
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if child, ok := s.transitions[name]; ok {
		return child
	}
	id := s.table.add(name, len(s.fields), kind)

	fields := make([]LocationID, len(s.fields)+1)
	copy(fields, s.fields)
	fields[len(s.fields)] = id

	index := make(map[string]LocationID, len(s.index)+1)
	for k, v := range s.index {
		index[k] = v
	}
	index[name] = id

	child = &Shape{table: s.table, parent: s, fields: fields, index: index}
	if s.transitions == nil {
		s.transitions = make(map[string]*Shape)
	}
	s.transitions[name] = child
	profile.Record(profile.ShapeTransition)
	return child
}
