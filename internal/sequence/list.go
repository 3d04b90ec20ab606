package sequence

import (
	"strings"

	"github.com/funvibe/adaptive/internal/value"
)

// List is the mutable container object of the language. Its elements live
// in a specialized Storage.
type List struct {
	store *Storage
}

func NewList(s *Storage) *List {
	return &List{store: s}
}

// NewListOf builds a list from values using the narrowest storage.
func NewListOf(values ...value.Value) *List {
	return &List{store: FromValues(values)}
}

func (l *List) Storage() *Storage { return l.store }
func (l *List) Len() int          { return l.store.Len() }

func (l *List) Type() value.ObjectType { return value.LIST_OBJ }

func (l *List) Inspect() string {
	var out strings.Builder
	out.WriteString("[")
	for i, v := range l.store.Values() {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(v.Inspect())
	}
	out.WriteString("]")
	return out.String()
}

func (l *List) Hash() uint32 {
	h := uint32(1)
	for _, v := range l.store.Values() {
		h = 31*h + v.Box().Hash()
	}
	return h
}

func (l *List) Equal(other value.Object) bool {
	o, ok := other.(*List)
	if !ok {
		return false
	}
	return l == o || l.store.Equal(o.store)
}
