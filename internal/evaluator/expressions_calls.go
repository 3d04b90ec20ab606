package evaluator

import (
	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/value"
)

// callHost adapts a call expression to callsite.Host.
type callHost struct {
	e    *Evaluator
	call *ast.Call
}

// Resolve caches only callables reached through a global name; anything
// else is resolved on every call.
func (h callHost) Resolve(f *frame.Frame) (value.Value, *callsite.Assumption, error) {
	if id, ok := h.call.Callee.(*ast.Ident); ok && !id.IsLocal() {
		v, guard, found := h.e.Globals.Lookup(id.Name)
		if !found {
			return value.Value{}, nil, h.e.newError("name '%s' is not defined", id.Name)
		}
		if !isCallable(v) {
			return v, nil, nil
		}
		return v, guard, nil
	}
	v, err := h.e.eval(h.call.Callee, f)
	return v, nil, err
}

func (h callHost) Arguments(f *frame.Frame) ([]value.Value, error) {
	return h.e.evalAll(h.call.Args, f)
}

func (h callHost) Invoke(callee value.Value, args []value.Value) (value.Value, error) {
	return h.e.invoke(callee, args)
}

func (h callHost) Inline(callee value.Value) (callsite.Body, bool) {
	switch fn := callee.Ref.(type) {
	case *Function:
		return ast.Clone(fn.Node.Body).(*ast.Block), true
	case *Builtin:
		return fn, true
	}
	return nil, false
}

func (h callHost) RunInlined(callee value.Value, body callsite.Body, args []value.Value) (value.Value, error) {
	switch b := body.(type) {
	case *ast.Block:
		return h.e.callFunction(callee.Ref.(*Function), b, args)
	case *Builtin:
		return b.Fn(h.e, args...)
	}
	return h.e.invoke(callee, args)
}

func (e *Evaluator) evalCall(n *ast.Call, f *frame.Frame) (value.Value, error) {
	site := n.SiteFor(e.Policy)
	return site.Execute(callHost{e: e, call: n}, f)
}

func (e *Evaluator) invoke(callee value.Value, args []value.Value) (value.Value, error) {
	switch fn := callee.Ref.(type) {
	case *Function:
		return e.callFunction(fn, fn.Node.Body, args)
	case *Builtin:
		return fn.Fn(e, args...)
	}
	return value.Value{}, e.newError("'%s' object is not callable", callee.Kind)
}

// callFunction runs body in a fresh activation of fn. body is either the
// function's own body or a spliced copy of it.
func (e *Evaluator) callFunction(fn *Function, body *ast.Block, args []value.Value) (value.Value, error) {
	node := fn.Node
	if len(args) != len(node.Params) {
		return value.Value{}, e.newError("%s() takes %d arguments (%d given)", node.Name, len(node.Params), len(args))
	}
	if len(e.CallStack) >= e.MaxDepth {
		return value.Value{}, e.newError("maximum recursion depth exceeded in %s()", node.Name)
	}

	fr := frame.NewFrame(node.Desc)
	for i, slot := range node.ParamSlots {
		fr.Write(slot, args[i])
	}

	e.PushCall(node.Name)
	v, returned, err := e.execBlock(body.Body, fr)
	e.PopCall()
	if err != nil {
		return value.Value{}, err
	}
	if !returned {
		return value.AbsentVal(), nil
	}
	return v, nil
}
