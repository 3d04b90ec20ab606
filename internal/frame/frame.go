package frame

import (
	"errors"
	"fmt"

	"github.com/funvibe/adaptive/internal/value"
)

// ErrKindMismatch is returned by ReadAsKind when the slot holds a different
// representation than requested. It is preallocated so the miss path does
// not allocate either.
var ErrKindMismatch = errors.New("frame: slot kind mismatch")

// Frame is one activation of a Descriptor.
type Frame struct {
	desc *Descriptor
	bits []uint64
	refs []value.Object
	tags []value.Kind
}

func NewFrame(desc *Descriptor) *Frame {
	n := desc.Size()
	return &Frame{
		desc: desc,
		bits: make([]uint64, n),
		refs: make([]value.Object, n),
		tags: make([]value.Kind, n),
	}
}

func (f *Frame) Descriptor() *Descriptor { return f.desc }

// grow makes room for slots declared after the frame was created.
func (f *Frame) grow(id SlotID) {
	if int(id) < len(f.tags) {
		return
	}
	n := f.desc.Size()
	f.bits = append(f.bits, make([]uint64, n-len(f.bits))...)
	f.refs = append(f.refs, make([]value.Object, n-len(f.refs))...)
	f.tags = append(f.tags, make([]value.Kind, n-len(f.tags))...)
}

// Tag returns the representation actually stored in id.
func (f *Frame) Tag(id SlotID) value.Kind {
	if int(id) >= len(f.tags) {
		return value.Illegal
	}
	return f.tags[id]
}

// ReadAsKind returns the slot value when it is stored as kind. Reading an
// unwritten slot as Object yields Absent; reading it as a primitive is a
// compiler bug and panics. Illegal is never a readable kind.
func (f *Frame) ReadAsKind(id SlotID, kind value.Kind) (value.Value, error) {
	if kind == value.Illegal {
		return value.Value{}, ErrKindMismatch
	}
	tag := f.Tag(id)
	if tag == kind {
		if kind == value.Ref {
			return value.Unbox(f.refs[id]), nil
		}
		return value.FromBits(kind, f.bits[id]), nil
	}
	if tag == value.Illegal {
		if kind == value.Ref {
			return value.AbsentVal(), nil
		}
		panic(fmt.Sprintf("frame: read of unwritten %s slot %q in %s",
			kind, f.desc.SlotName(id), f.desc.Name()))
	}
	return value.Value{}, ErrKindMismatch
}

// ReadBoxed is the generic reader; it never misses.
func (f *Frame) ReadBoxed(id SlotID) value.Value {
	switch tag := f.Tag(id); tag {
	case value.Illegal:
		return value.AbsentVal()
	case value.Ref:
		return value.Unbox(f.refs[id])
	default:
		return value.FromBits(tag, f.bits[id])
	}
}

// Write stores v, widening the slot kind first if needed. A primitive
// narrower than the slot kind is stored converted to it, so only a
// reference write moves a slot to Object. It reports whether the
// descriptor changed so the caller can respecialize readers.
func (f *Frame) Write(id SlotID, v value.Value) bool {
	f.grow(id)
	kind, widened := f.desc.Widen(id, v.Kind)
	f.store(id, kind, v)
	return widened
}

// Lift re-stores id under the descriptor's current kind and returns the
// converted value. Another activation may have widened the slot since
// this frame wrote it.
func (f *Frame) Lift(id SlotID) value.Value {
	tag := f.Tag(id)
	if tag == value.Illegal {
		return value.AbsentVal()
	}
	v := f.ReadBoxed(id)
	kind := f.desc.Kind(id)
	if tag != kind {
		f.store(id, kind, v)
	}
	return coerce(v, kind)
}

func (f *Frame) store(id SlotID, kind value.Kind, v value.Value) {
	if kind != value.Ref && v.Kind.IsPrimitive() && v.Kind != value.Long {
		v = coerce(v, kind)
		f.bits[id] = v.Bits
		f.refs[id] = nil
		f.tags[id] = kind
		return
	}
	f.refs[id] = v.Box()
	f.bits[id] = 0
	f.tags[id] = value.Ref
}
