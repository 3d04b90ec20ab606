package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/adaptive/internal/value"
)

// ErrKindMismatch is returned when a field is read as a kind it is not
// stored as. The caller switches to GetBoxed.
var ErrKindMismatch = errors.New("shape: field kind mismatch")

// Object is an instance whose fields are laid out by a Shape.
type Object struct {
	shape *Shape
	bits  []uint64
	refs  []value.Object
	// tags holds the assigned bit and the stored representation in one
	// byte: Illegal means unassigned.
	tags []value.Kind
}

// New creates an empty object on root.
func New(root *Shape) *Object {
	return &Object{shape: root}
}

func (o *Object) Shape() *Shape { return o.shape }

func (o *Object) Type() value.ObjectType { return value.INSTANCE_OBJ }

func (o *Object) Inspect() string {
	var out strings.Builder
	out.WriteString("{")
	first := true
	for i, id := range o.shape.fields {
		if o.tags[i] == value.Illegal {
			continue
		}
		if !first {
			out.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&out, "%s: %s", o.shape.table.Location(id).name, o.load(i).Inspect())
	}
	out.WriteString("}")
	return out.String()
}

func (o *Object) Hash() uint32 {
	h := uint32(17)
	for i := range o.shape.fields {
		h = 31*h + o.load(i).Box().Hash()
	}
	return h
}

// Equal compares assigned fields by name and value.
func (o *Object) Equal(other value.Object) bool {
	p, ok := other.(*Object)
	if !ok {
		return false
	}
	if p == o {
		return true
	}
	if len(o.Fields()) != len(p.Fields()) {
		return false
	}
	for _, name := range o.Fields() {
		if !GetBoxed(o, name).Equals(GetBoxed(p, name)) {
			return false
		}
	}
	return true
}

// Fields returns the assigned field names in definition order.
func (o *Object) Fields() []string {
	var names []string
	for i, id := range o.shape.fields {
		if o.tags[i] != value.Illegal {
			names = append(names, o.shape.table.Location(id).name)
		}
	}
	return names
}

func (o *Object) grow() {
	n := o.shape.NumFields()
	if len(o.tags) >= n {
		return
	}
	o.bits = append(o.bits, make([]uint64, n-len(o.bits))...)
	o.refs = append(o.refs, make([]value.Object, n-len(o.refs))...)
	o.tags = append(o.tags, make([]value.Kind, n-len(o.tags))...)
}

func (o *Object) load(slot int) value.Value {
	switch tag := o.tags[slot]; tag {
	case value.Illegal:
		return value.AbsentVal()
	case Boxed:
		return value.Unbox(o.refs[slot])
	default:
		return value.FromBits(tag, o.bits[slot])
	}
}

// SetField writes v to name. A value whose kind the location does not hold
// generalizes the location to Boxed for every object sharing it. Writing
// Absent clears the assigned bit.
func SetField(o *Object, name string, v value.Value) {
	id, ok := o.shape.Lookup(name)
	if !ok {
		if v.IsAbsent() {
			return
		}
		o.shape = o.shape.withField(name, KindOf(v.Kind))
		o.grow()
		id, _ = o.shape.Lookup(name)
	}
	loc := o.shape.table.Location(id)
	slot := loc.slot

	if v.IsAbsent() {
		o.bits[slot] = 0
		o.refs[slot] = nil
		o.tags[slot] = value.Illegal
		return
	}

	kind := KindOf(v.Kind)
	if loc.Kind() == kind && kind != Boxed {
		o.bits[slot] = v.Bits
		o.refs[slot] = nil
		o.tags[slot] = kind
		return
	}
	if loc.Kind() != Boxed {
		o.shape.table.Generalize(id)
	}
	if loc.Kind() != Boxed {
		panic(fmt.Sprintf("shape: location %s has no boxed representation", loc))
	}
	o.refs[slot] = v.Box()
	o.bits[slot] = 0
	o.tags[slot] = Boxed
}

// GetField reads name stored as kind. Unassigned and unknown fields read
// as Absent.
func GetField(o *Object, name string, kind Kind) (value.Value, error) {
	id, ok := o.shape.Lookup(name)
	if !ok {
		return value.AbsentVal(), nil
	}
	slot := o.shape.table.Location(id).slot
	tag := o.tags[slot]
	if tag == value.Illegal {
		return value.AbsentVal(), nil
	}
	if tag != kind {
		return value.Value{}, ErrKindMismatch
	}
	if kind == Boxed {
		return value.Unbox(o.refs[slot]), nil
	}
	return value.FromBits(kind, o.bits[slot]), nil
}

// GetBoxed reads name whatever its representation.
func GetBoxed(o *Object, name string) value.Value {
	id, ok := o.shape.Lookup(name)
	if !ok {
		return value.AbsentVal()
	}
	return o.load(o.shape.table.Location(id).slot)
}

// LocationOf exposes the storage kind currently speculated for name.
func LocationOf(o *Object, name string) (*Location, bool) {
	id, ok := o.shape.Lookup(name)
	if !ok {
		return nil, false
	}
	return o.shape.table.Location(id), true
}
