// Package evaluator walks an ast tree and drives the speculation
// machinery: slot readers respecialize on kind misses, attribute readers
// fall back to boxed access, and calls go through their callsite.Site.
// Speculation misses are handled here and never surface as errors.
package evaluator

import (
	"io"
	"os"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/shape"
	"github.com/funvibe/adaptive/internal/value"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name string
}

// Evaluator runs programs. One Evaluator is not safe for concurrent use.
// Several evaluators may run the same tree concurrently as long as they
// share Globals, since call sites cache callees under its assumption.
type Evaluator struct {
	Out io.Writer
	// Globals is the defining scope of top-level names.
	Globals *callsite.Scope
	// Root is the empty shape every new object starts from.
	Root *shape.Shape
	// Policy is given to call sites created by this evaluator.
	Policy callsite.InlinePolicy
	// InitialCapacity is reserved for empty list literals.
	InitialCapacity int
	MaxDepth        int
	// CallStack for stack traces on errors
	CallStack []CallFrame
}

// Options configure New.
type Options struct {
	Out             io.Writer
	Policy          callsite.InlinePolicy
	InitialCapacity int
	// Shapes lets evaluators share object layouts. Nil gets a new table.
	Shapes *shape.Table
	// Globals lets evaluators share a defining scope. Nil gets a new one.
	Globals *callsite.Scope
}

func New(opts Options) *Evaluator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Shapes == nil {
		opts.Shapes = shape.NewTable()
	}
	if opts.Globals == nil {
		opts.Globals = callsite.NewScope("globals")
	}
	e := &Evaluator{
		Out:             opts.Out,
		Globals:         opts.Globals,
		Root:            opts.Shapes.Root(),
		Policy:          opts.Policy,
		InitialCapacity: opts.InitialCapacity,
		MaxDepth:        config.MaxCallDepth,
		CallStack:       make([]CallFrame, 0),
	}
	e.registerBuiltins()
	return e
}

// Run executes the top level of p. The result is the value of a top-level
// return, or Absent.
func (e *Evaluator) Run(p *ast.Program) (value.Value, error) {
	v, returned, err := e.execBlock(p.Body, nil)
	if err != nil {
		return value.Value{}, err
	}
	if !returned {
		return value.AbsentVal(), nil
	}
	return v, nil
}

// Eval evaluates node in f. f is nil at the top level.
func (e *Evaluator) Eval(node ast.Node, f *frame.Frame) (value.Value, error) {
	v, _, err := e.exec(node, f)
	return v, err
}

// exec runs a statement and reports whether a return was executed.
func (e *Evaluator) exec(node ast.Node, f *frame.Frame) (value.Value, bool, error) {
	switch n := node.(type) {
	case *ast.Block:
		return e.execBlock(n.Body, f)
	case *ast.Return:
		return e.execReturn(n, f)
	case *ast.If:
		return e.execIf(n, f)
	case *ast.While:
		return e.execWhile(n, f)
	case *ast.Program:
		return e.execBlock(n.Body, f)
	default:
		v, err := e.eval(node, f)
		return v, false, err
	}
}

func (e *Evaluator) eval(node ast.Node, f *frame.Frame) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Ident:
		if n.IsLocal() {
			return e.readLocal(n, f)
		}
		return e.readGlobal(n)
	case *ast.Assign:
		return e.evalAssign(n, f)
	case *ast.Function:
		return value.RefVal(&Function{Node: n}), nil
	case *ast.Binary:
		return e.evalBinary(n, f)
	case *ast.Unary:
		return e.evalUnary(n, f)
	case *ast.Call:
		return e.evalCall(n, f)
	case *ast.NewObject:
		return value.RefVal(shape.New(e.Root)), nil
	case *ast.GetAttr:
		return e.evalGetAttr(n, f)
	case *ast.SetAttr:
		return e.evalSetAttr(n, f)
	case *ast.ListLiteral:
		return e.evalListLiteral(n, f)
	case *ast.Index:
		return e.evalIndex(n, f)
	case *ast.SetIndex:
		return e.evalSetIndex(n, f)
	case *ast.Slice:
		return e.evalSlice(n, f)
	case *ast.MethodCall:
		return e.evalMethodCall(n, f)
	case *ast.Block, *ast.Return, *ast.If, *ast.While, *ast.Program:
		v, _, err := e.exec(n, f)
		return v, err
	}
	return value.Value{}, e.newError("unknown node: %s", node.String())
}

func (e *Evaluator) evalAll(nodes []ast.Node, f *frame.Frame) ([]value.Value, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]value.Value, len(nodes))
	for i, n := range nodes {
		v, err := e.eval(n, f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
