package evaluator

import (
	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/sequence"
	"github.com/funvibe/adaptive/internal/value"
)

// execBlock runs statements until one returns.
func (e *Evaluator) execBlock(body []ast.Node, f *frame.Frame) (value.Value, bool, error) {
	result := value.AbsentVal()
	for _, stmt := range body {
		v, returned, err := e.exec(stmt, f)
		if err != nil || returned {
			return v, returned, err
		}
		result = v
	}
	return result, false, nil
}

func (e *Evaluator) execReturn(n *ast.Return, f *frame.Frame) (value.Value, bool, error) {
	if n.Value == nil {
		return value.AbsentVal(), true, nil
	}
	v, err := e.eval(n.Value, f)
	return v, err == nil, err
}

func (e *Evaluator) execIf(n *ast.If, f *frame.Frame) (value.Value, bool, error) {
	cond, err := e.eval(n.Cond, f)
	if err != nil {
		return value.Value{}, false, err
	}
	if isTruthy(cond) {
		return e.execBlock(n.Then.Body, f)
	}
	if n.Else != nil {
		return e.execBlock(n.Else.Body, f)
	}
	return value.AbsentVal(), false, nil
}

func (e *Evaluator) execWhile(n *ast.While, f *frame.Frame) (value.Value, bool, error) {
	for {
		cond, err := e.eval(n.Cond, f)
		if err != nil {
			return value.Value{}, false, err
		}
		if !isTruthy(cond) {
			return value.AbsentVal(), false, nil
		}
		v, returned, err := e.execBlock(n.Body.Body, f)
		if err != nil || returned {
			return v, returned, err
		}
	}
}

func isTruthy(v value.Value) bool {
	switch v.Kind {
	case value.Boolean:
		return v.AsBool()
	case value.Int:
		return v.AsInt() != 0
	case value.Long:
		return v.AsLong() != 0
	case value.Double:
		return v.AsDouble() != 0
	case value.String:
		return v.AsString() != ""
	case value.Ref:
		if l, ok := v.Ref.(*sequence.List); ok {
			return l.Len() > 0
		}
		return v.Ref != nil
	default:
		return false
	}
}
