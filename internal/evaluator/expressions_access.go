package evaluator

import (
	"errors"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/sequence"
	"github.com/funvibe/adaptive/internal/shape"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

func (e *Evaluator) instance(n ast.Node, f *frame.Frame, attr string) (*shape.Object, error) {
	v, err := e.eval(n, f)
	if err != nil {
		return nil, err
	}
	obj, ok := v.Ref.(*shape.Object)
	if !ok {
		return nil, e.newError("'%s' value has no attribute '%s'", v.Kind, attr)
	}
	return obj, nil
}

// evalGetAttr reads with the kind the node speculates on. A miss switches
// the reader to boxed access for good.
func (e *Evaluator) evalGetAttr(n *ast.GetAttr, f *frame.Frame) (value.Value, error) {
	obj, err := e.instance(n.Object, f, n.Name)
	if err != nil {
		return value.Value{}, err
	}
	kind := n.Kind()
	if kind == value.Illegal {
		loc, ok := shape.LocationOf(obj, n.Name)
		if !ok {
			return value.AbsentVal(), nil
		}
		kind = loc.Kind()
		n.Specialize(kind)
	}
	if kind == shape.Boxed {
		return shape.GetBoxed(obj, n.Name), nil
	}
	v, err := shape.GetField(obj, n.Name, kind)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, shape.ErrKindMismatch) && n.Respecialize(kind, shape.Boxed) {
		profile.Record(profile.SlotRespecialized)
		log.Debug().Str("field", n.Name).Stringer("from", kind).Msg("field reader switched to boxed")
	}
	return shape.GetBoxed(obj, n.Name), nil
}

func (e *Evaluator) evalSetAttr(n *ast.SetAttr, f *frame.Frame) (value.Value, error) {
	obj, err := e.instance(n.Object, f, n.Name)
	if err != nil {
		return value.Value{}, err
	}
	v, err := e.eval(n.Value, f)
	if err != nil {
		return value.Value{}, err
	}
	shape.SetField(obj, n.Name, v)
	return v, nil
}

func (e *Evaluator) evalListLiteral(n *ast.ListLiteral, f *frame.Frame) (value.Value, error) {
	elems, err := e.evalAll(n.Elements, f)
	if err != nil {
		return value.Value{}, err
	}
	kind := n.ElementKind
	if kind == value.Illegal {
		if len(elems) > 0 {
			return value.RefVal(sequence.NewListOf(elems...)), nil
		}
		kind = value.Ref
	}
	switch kind {
	case value.Int, value.Long, value.Double, value.Ref:
	default:
		return value.Value{}, e.newError("no list storage for %s elements", kind)
	}
	s := sequence.NewWithCapacity(kind, max(len(elems), e.InitialCapacity))
	for _, v := range elems {
		s.Append(v)
	}
	return value.RefVal(sequence.NewList(s)), nil
}

func (e *Evaluator) list(n ast.Node, f *frame.Frame) (*sequence.Storage, error) {
	v, err := e.eval(n, f)
	if err != nil {
		return nil, err
	}
	l, ok := v.Ref.(*sequence.List)
	if !ok {
		return nil, e.newError("'%s' value is not a list", v.Kind)
	}
	return l.Storage(), nil
}

func (e *Evaluator) intArg(n ast.Node, f *frame.Frame) (int, error) {
	v, err := e.eval(n, f)
	if err != nil {
		return 0, err
	}
	return e.toIndex(v)
}

func (e *Evaluator) toIndex(v value.Value) (int, error) {
	switch v.Kind {
	case value.Int:
		return int(v.AsInt()), nil
	case value.Long:
		return int(v.AsLong()), nil
	}
	return 0, e.newError("list indices must be integers, not %s", v.Kind)
}

func (e *Evaluator) evalIndex(n *ast.Index, f *frame.Frame) (value.Value, error) {
	s, err := e.list(n.Target, f)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := e.intArg(n.Index, f)
	if err != nil {
		return value.Value{}, err
	}
	v, err := s.Get(idx)
	if err != nil {
		return value.Value{}, e.newError("%w", err)
	}
	return v, nil
}

func (e *Evaluator) evalSetIndex(n *ast.SetIndex, f *frame.Frame) (value.Value, error) {
	s, err := e.list(n.Target, f)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := e.intArg(n.Index, f)
	if err != nil {
		return value.Value{}, err
	}
	v, err := e.eval(n.Value, f)
	if err != nil {
		return value.Value{}, err
	}
	if err := s.Set(idx, v); err != nil {
		return value.Value{}, e.newError("%w", err)
	}
	return v, nil
}

func (e *Evaluator) optIndex(n ast.Node, f *frame.Frame) (*int, error) {
	if n == nil {
		return nil, nil
	}
	i, err := e.intArg(n, f)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (e *Evaluator) evalSlice(n *ast.Slice, f *frame.Frame) (value.Value, error) {
	s, err := e.list(n.Target, f)
	if err != nil {
		return value.Value{}, err
	}
	start, err := e.optIndex(n.Start, f)
	if err != nil {
		return value.Value{}, err
	}
	stop, err := e.optIndex(n.Stop, f)
	if err != nil {
		return value.Value{}, err
	}
	step := 1
	if n.Step != nil {
		if step, err = e.intArg(n.Step, f); err != nil {
			return value.Value{}, err
		}
	}
	out, err := s.SliceBounds(start, stop, step)
	if err != nil {
		return value.Value{}, e.newError("%w", err)
	}
	return value.RefVal(sequence.NewList(out)), nil
}

func (e *Evaluator) evalMethodCall(n *ast.MethodCall, f *frame.Frame) (value.Value, error) {
	s, err := e.list(n.Receiver, f)
	if err != nil {
		return value.Value{}, err
	}
	args, err := e.evalAll(n.Args, f)
	if err != nil {
		return value.Value{}, err
	}
	v, err := e.listMethod(s, n.Method, args)
	if err != nil {
		if _, ok := err.(*RuntimeError); ok {
			return value.Value{}, err
		}
		return value.Value{}, e.newError("%s: %w", n.Method, err)
	}
	return v, nil
}

func (e *Evaluator) arity(method string, args []value.Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return e.newError("%s() takes exactly %d argument(s) (%d given)", method, lo, len(args))
		}
		return e.newError("%s() takes %d to %d arguments (%d given)", method, lo, hi, len(args))
	}
	return nil
}

func (e *Evaluator) listMethod(s *sequence.Storage, method string, args []value.Value) (value.Value, error) {
	absent := value.AbsentVal()
	switch method {
	case config.AppendMethodName:
		if err := e.arity(method, args, 1, 1); err != nil {
			return absent, err
		}
		s.Append(args[0])
		return absent, nil

	case config.InsertMethodName:
		if err := e.arity(method, args, 2, 2); err != nil {
			return absent, err
		}
		idx, err := e.toIndex(args[0])
		if err != nil {
			return absent, err
		}
		return absent, s.Insert(idx, args[1])

	case config.PopMethodName:
		if err := e.arity(method, args, 0, 1); err != nil {
			return absent, err
		}
		idx := -1
		if len(args) == 1 {
			var err error
			if idx, err = e.toIndex(args[0]); err != nil {
				return absent, err
			}
		}
		return s.Pop(idx)

	case config.SortMethodName:
		if err := e.arity(method, args, 0, 0); err != nil {
			return absent, err
		}
		return absent, s.Sort()

	case config.ReverseMethodName:
		if err := e.arity(method, args, 0, 0); err != nil {
			return absent, err
		}
		s.Reverse()
		return absent, nil

	case config.IndexMethodName:
		if err := e.arity(method, args, 1, 1); err != nil {
			return absent, err
		}
		i := s.IndexOf(args[0])
		if i < 0 {
			return absent, e.newError("%s is not in list", args[0].Inspect())
		}
		return value.IntVal(int32(i)), nil

	case config.ExtendMethodName:
		if err := e.arity(method, args, 1, 1); err != nil {
			return absent, err
		}
		other, ok := args[0].Ref.(*sequence.List)
		if !ok {
			return absent, e.newError("extend() argument must be a list, not %s", args[0].Kind)
		}
		s.Extend(other.Storage())
		return absent, nil

	case config.CopyMethodName:
		if err := e.arity(method, args, 0, 0); err != nil {
			return absent, err
		}
		return value.RefVal(sequence.NewList(s.Copy())), nil
	}
	return absent, e.newError("list has no method '%s'", method)
}
