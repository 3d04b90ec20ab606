package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/sequence"
	"github.com/funvibe/adaptive/internal/value"
)

var builtins = map[string]BuiltinFunction{
	config.PrintFuncName: builtinPrint,
	config.LenFuncName:   builtinLen,
	config.AbsFuncName:   builtinAbs,
	config.MinFuncName:   builtinMin,
	config.MaxFuncName:   builtinMax,
}

// registerBuiltins binds builtins that are not bound yet, so a shared
// scope is not mutated twice.
func (e *Evaluator) registerBuiltins() {
	for name, fn := range builtins {
		if _, ok := e.Globals.Get(name); ok {
			continue
		}
		e.Globals.Set(name, value.RefVal(&Builtin{Name: name, Fn: fn}))
	}
}

// display renders v the way print shows it: strings unquoted.
func display(v value.Value) string {
	if v.Kind == value.String {
		return v.AsString()
	}
	return v.Inspect()
}

func builtinPrint(e *Evaluator, args ...value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = display(a)
	}
	if _, err := fmt.Fprintln(e.Out, strings.Join(parts, " ")); err != nil {
		return value.Value{}, e.newError("print: %w", err)
	}
	return value.AbsentVal(), nil
}

func builtinLen(e *Evaluator, args ...value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, e.newError("len() takes exactly one argument (%d given)", len(args))
	}
	switch v := args[0]; {
	case v.Kind == value.String:
		return value.IntVal(int32(len(v.AsString()))), nil
	default:
		if l, ok := v.Ref.(*sequence.List); ok {
			return value.IntVal(int32(l.Len())), nil
		}
		return value.Value{}, e.newError("object of type %s has no len()", v.Kind)
	}
}

func builtinAbs(e *Evaluator, args ...value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, e.newError("abs() takes exactly one argument (%d given)", len(args))
	}
	v := args[0]
	switch v.Kind {
	case value.Int:
		x := int64(v.AsInt())
		if x < 0 {
			x = -x
		}
		return intResult(x, false), nil
	case value.Long:
		x := v.AsLong()
		if x < 0 {
			x = -x
		}
		return value.LongVal(x), nil
	case value.Double:
		x := v.AsDouble()
		if x < 0 {
			x = -x
		}
		return value.DoubleVal(x), nil
	}
	return value.Value{}, e.newError("bad operand type for abs(): %s", v.Kind)
}

func builtinMin(e *Evaluator, args ...value.Value) (value.Value, error) {
	return extreme(e, config.MinFuncName, (*sequence.Storage).Min, args)
}

func builtinMax(e *Evaluator, args ...value.Value) (value.Value, error) {
	return extreme(e, config.MaxFuncName, (*sequence.Storage).Max, args)
}

// extreme accepts either one list or several values.
func extreme(e *Evaluator, name string, pick func(*sequence.Storage) (value.Value, error), args []value.Value) (value.Value, error) {
	var s *sequence.Storage
	switch {
	case len(args) == 0:
		return value.Value{}, e.newError("%s expected at least 1 argument, got 0", name)
	case len(args) == 1:
		l, ok := args[0].Ref.(*sequence.List)
		if !ok {
			return value.Value{}, e.newError("'%s' object is not iterable", args[0].Kind)
		}
		s = l.Storage()
	default:
		s = sequence.FromValues(args)
	}
	v, err := pick(s)
	if err != nil {
		return value.Value{}, e.newError("%s(): %w", name, err)
	}
	return v, nil
}
