package evaluator

import (
	"strings"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/value"
)

// Function is a user-defined function value.
type Function struct {
	Node *ast.Function
}

func (f *Function) Name() string { return f.Node.Name }

func (f *Function) Type() value.ObjectType { return value.FUNCTION_OBJ }
func (f *Function) Inspect() string {
	return "<function " + f.Node.Name + "(" + strings.Join(f.Node.Params, ", ") + ")>"
}
func (f *Function) Hash() uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(f.Node.Name); i++ {
		h ^= uint32(f.Node.Name[i])
		h *= 16777619
	}
	return h
}

// BuiltinFunction is the Go implementation of a builtin.
type BuiltinFunction func(e *Evaluator, args ...value.Value) (value.Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() value.ObjectType { return value.BUILTIN_OBJ }
func (b *Builtin) Inspect() string        { return "<builtin " + b.Name + ">" }
func (b *Builtin) Hash() uint32           { return uint32(len(b.Name)) }

func isCallable(v value.Value) bool {
	switch v.Ref.(type) {
	case *Function, *Builtin:
		return true
	}
	return false
}
