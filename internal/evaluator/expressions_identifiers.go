package evaluator

import (
	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

// readLocal reads a slot with the reader's speculated kind and
// respecializes the reader on a miss. An unassigned local is an error
// whatever its slot kind.
func (e *Evaluator) readLocal(n *ast.Ident, f *frame.Frame) (value.Value, error) {
	if f == nil || f.Tag(n.Slot) == value.Illegal {
		return value.Value{}, e.newError("local variable '%s' referenced before assignment", n.Name)
	}
	kind := n.Kind()
	if kind == value.Illegal {
		kind = f.Descriptor().Kind(n.Slot)
		n.Specialize(kind)
	}
	v, err := f.ReadAsKind(n.Slot, kind)
	if err == nil {
		return v, nil
	}
	return e.respecializeLocal(n, f, kind), nil
}

// respecializeLocal handles a reader miss. The frame catches up with the
// descriptor, whose kind may have been widened by another activation, and
// the reader moves to that kind.
func (e *Evaluator) respecializeLocal(n *ast.Ident, f *frame.Frame, stale value.Kind) value.Value {
	desc := f.Descriptor()
	v := f.Lift(n.Slot)
	next := desc.Kind(n.Slot)
	if next != stale && n.Respecialize(stale, next) {
		profile.Record(profile.SlotRespecialized)
		log.Debug().
			Str("scope", desc.Name()).
			Str("slot", n.Name).
			Stringer("from", stale).
			Stringer("to", next).
			Msg("slot reader respecialized")
	}
	return v
}

func (e *Evaluator) readGlobal(n *ast.Ident) (value.Value, error) {
	v, ok := e.Globals.Get(n.Name)
	if !ok {
		return value.Value{}, e.newError("name '%s' is not defined", n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalAssign(n *ast.Assign, f *frame.Frame) (value.Value, error) {
	v, err := e.eval(n.Value, f)
	if err != nil {
		return value.Value{}, err
	}
	if n.Slot == frame.NoSlot || f == nil {
		e.Globals.Set(n.Name, v)
		return v, nil
	}
	f.Write(n.Slot, v)
	return v, nil
}
