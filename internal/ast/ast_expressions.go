package ast

import (
	"sync/atomic"

	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/value"
)

// Literal is a constant.
type Literal struct {
	Value value.Value
}

func Int(v int32) *Literal      { return &Literal{Value: value.IntVal(v)} }
func Long(v int64) *Literal     { return &Literal{Value: value.LongVal(v)} }
func Double(v float64) *Literal { return &Literal{Value: value.DoubleVal(v)} }
func Bool(v bool) *Literal      { return &Literal{Value: value.BoolVal(v)} }
func String(v string) *Literal  { return &Literal{Value: value.StringVal(v)} }
func Absent() *Literal          { return &Literal{Value: value.AbsentVal()} }

func (l *Literal) node()          {}
func (l *Literal) String() string { return l.Value.Inspect() }

type Operator string

const (
	OpAdd      Operator = "+"
	OpSub      Operator = "-"
	OpMul      Operator = "*"
	OpDiv      Operator = "/"
	OpFloorDiv Operator = "//"
	OpMod      Operator = "%"
	OpEq       Operator = "=="
	OpNotEq    Operator = "!="
	OpLt       Operator = "<"
	OpLtEq     Operator = "<="
	OpGt       Operator = ">"
	OpGtEq     Operator = ">="
	OpAnd      Operator = "and"
	OpOr       Operator = "or"
	OpNot      Operator = "not"
	OpNeg      Operator = "-"
)

type Binary struct {
	Op          Operator
	Left, Right Node
}

func Bin(left Node, op Operator, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func (b *Binary) node() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

type Unary struct {
	Op      Operator
	Operand Node
}

func Not(n Node) *Unary { return &Unary{Op: OpNot, Operand: n} }
func Neg(n Node) *Unary { return &Unary{Op: OpNeg, Operand: n} }

func (u *Unary) node() {}
func (u *Unary) String() string {
	if u.Op == OpNot {
		return "not " + u.Operand.String()
	}
	return string(u.Op) + u.Operand.String()
}

// Call is a call expression. Its Site is created on first execution.
type Call struct {
	Callee Node
	Args   []Node
	site   atomic.Pointer[callsite.Site]
}

func NewCall(callee Node, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// CallName is NewCall on a global or local name.
func CallName(name string, args ...Node) *Call {
	return NewCall(Name(name), args...)
}

// Site returns the call's site, or nil before the first execution.
func (c *Call) Site() *callsite.Site { return c.site.Load() }

// SiteFor returns the call's site, creating it with policy if needed.
func (c *Call) SiteFor(policy callsite.InlinePolicy) *callsite.Site {
	if s := c.site.Load(); s != nil {
		return s
	}
	s := callsite.NewSite(c.String(), policy)
	if c.site.CompareAndSwap(nil, s) {
		return s
	}
	return c.site.Load()
}

func (c *Call) node() {}
func (c *Call) String() string {
	return c.Callee.String() + "(" + joinNodes(c.Args, ", ") + ")"
}

// NewObject creates an empty object with the root shape.
type NewObject struct{}

func Object() *NewObject { return &NewObject{} }

func (n *NewObject) node()          {}
func (n *NewObject) String() string { return "object()" }

// GetAttr reads a field, speculating on its storage kind.
type GetAttr struct {
	Object Node
	Name   string
	Speculation
}

func Attr(obj Node, name string) *GetAttr {
	return &GetAttr{Object: obj, Name: name}
}

func (g *GetAttr) node()          {}
func (g *GetAttr) String() string { return g.Object.String() + "." + g.Name }

type SetAttr struct {
	Object Node
	Name   string
	Value  Node
}

func SetField(obj Node, name string, v Node) *SetAttr {
	return &SetAttr{Object: obj, Name: name, Value: v}
}

func (s *SetAttr) node() {}
func (s *SetAttr) String() string {
	return s.Object.String() + "." + s.Name + " = " + s.Value.String()
}
