package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/sequence"
	"github.com/funvibe/adaptive/internal/value"
)

func (e *Evaluator) evalBinary(n *ast.Binary, f *frame.Frame) (value.Value, error) {
	left, err := e.eval(n.Left, f)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case ast.OpAnd:
		if !isTruthy(left) {
			return left, nil
		}
		return e.eval(n.Right, f)
	case ast.OpOr:
		if isTruthy(left) {
			return left, nil
		}
		return e.eval(n.Right, f)
	}
	right, err := e.eval(n.Right, f)
	if err != nil {
		return value.Value{}, err
	}
	return e.binaryOp(n.Op, left, right)
}

func (e *Evaluator) binaryOp(op ast.Operator, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpEq:
		return value.BoolVal(left.Equals(right)), nil
	case ast.OpNotEq:
		return value.BoolVal(!left.Equals(right)), nil
	}

	if left.IsNumber() && right.IsNumber() {
		if left.Kind == value.Double || right.Kind == value.Double {
			return e.floatOp(op, left.AsFloat64(), right.AsFloat64())
		}
		long := left.Kind == value.Long || right.Kind == value.Long
		return e.intOp(op, toInt64(left), toInt64(right), long)
	}

	if left.Kind == value.String && right.Kind == value.String {
		return e.stringOp(op, left.AsString(), right.AsString())
	}

	if op == ast.OpAdd {
		l, lok := left.Ref.(*sequence.List)
		r, rok := right.Ref.(*sequence.List)
		if lok && rok {
			s := l.Storage().Copy()
			s.Extend(r.Storage())
			return value.RefVal(sequence.NewList(s)), nil
		}
	}

	return value.Value{}, e.newError("unsupported operand types for %s: %s and %s", op, left.Kind, right.Kind)
}

func toInt64(v value.Value) int64 {
	if v.Kind == value.Int {
		return int64(v.AsInt())
	}
	return v.AsLong()
}

// intResult narrows to Int when neither operand was a Long and the result
// fits.
func intResult(x int64, long bool) value.Value {
	if !long && x >= math.MinInt32 && x <= math.MaxInt32 {
		return value.IntVal(int32(x))
	}
	return value.LongVal(x)
}

func (e *Evaluator) intOp(op ast.Operator, a, b int64, long bool) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return intResult(a+b, long), nil
	case ast.OpSub:
		return intResult(a-b, long), nil
	case ast.OpMul:
		return intResult(a*b, long), nil
	case ast.OpDiv:
		if b == 0 {
			return value.Value{}, e.newError("division by zero")
		}
		return value.DoubleVal(float64(a) / float64(b)), nil
	case ast.OpFloorDiv:
		if b == 0 {
			return value.Value{}, e.newError("integer division by zero")
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return intResult(q, long), nil
	case ast.OpMod:
		if b == 0 {
			return value.Value{}, e.newError("integer modulo by zero")
		}
		m := a % b
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return intResult(m, long), nil
	case ast.OpLt:
		return value.BoolVal(a < b), nil
	case ast.OpLtEq:
		return value.BoolVal(a <= b), nil
	case ast.OpGt:
		return value.BoolVal(a > b), nil
	case ast.OpGtEq:
		return value.BoolVal(a >= b), nil
	}
	return value.Value{}, e.newError("unknown integer operator: %s", op)
}

func (e *Evaluator) floatOp(op ast.Operator, a, b float64) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return value.DoubleVal(a + b), nil
	case ast.OpSub:
		return value.DoubleVal(a - b), nil
	case ast.OpMul:
		return value.DoubleVal(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return value.Value{}, e.newError("float division by zero")
		}
		return value.DoubleVal(a / b), nil
	case ast.OpFloorDiv:
		if b == 0 {
			return value.Value{}, e.newError("float divmod by zero")
		}
		return value.DoubleVal(math.Floor(a / b)), nil
	case ast.OpMod:
		if b == 0 {
			return value.Value{}, e.newError("float modulo by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return value.DoubleVal(m), nil
	case ast.OpLt:
		return value.BoolVal(a < b), nil
	case ast.OpLtEq:
		return value.BoolVal(a <= b), nil
	case ast.OpGt:
		return value.BoolVal(a > b), nil
	case ast.OpGtEq:
		return value.BoolVal(a >= b), nil
	}
	return value.Value{}, e.newError("unknown float operator: %s", op)
}

func (e *Evaluator) stringOp(op ast.Operator, a, b string) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return value.StringVal(a + b), nil
	case ast.OpLt:
		return value.BoolVal(strings.Compare(a, b) < 0), nil
	case ast.OpLtEq:
		return value.BoolVal(strings.Compare(a, b) <= 0), nil
	case ast.OpGt:
		return value.BoolVal(strings.Compare(a, b) > 0), nil
	case ast.OpGtEq:
		return value.BoolVal(strings.Compare(a, b) >= 0), nil
	}
	return value.Value{}, e.newError("unsupported operand types for %s: String and String", op)
}

func (e *Evaluator) evalUnary(n *ast.Unary, f *frame.Frame) (value.Value, error) {
	v, err := e.eval(n.Operand, f)
	if err != nil {
		return value.Value{}, err
	}
	if n.Op == ast.OpNot {
		return value.BoolVal(!isTruthy(v)), nil
	}
	switch v.Kind {
	case value.Int:
		return intResult(-int64(v.AsInt()), false), nil
	case value.Long:
		return value.LongVal(-v.AsLong()), nil
	case value.Double:
		return value.DoubleVal(-v.AsDouble()), nil
	}
	return value.Value{}, e.newError("bad operand type for unary -: %s", v.Kind)
}
