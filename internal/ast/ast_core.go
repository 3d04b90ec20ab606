// Package ast defines the tree the evaluator walks. Programs are built
// directly with the constructors in this package; there is no parser.
//
// Nodes that specialize themselves (identifier reads, attribute reads,
// calls) keep their speculation state inline so that sharing a tree
// between evaluators shares what was learned.
package ast

import (
	"strings"
	"sync/atomic"

	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/value"
)

// Node is the base interface for all AST nodes.
type Node interface {
	String() string
	node()
}

// Speculation holds the representation a node currently assumes.
// Illegal means the node has not specialized yet.
type Speculation struct {
	kind atomic.Uint32
}

func (s *Speculation) Kind() value.Kind { return value.Kind(s.kind.Load()) }

// Specialize publishes the first kind. It loses to a racing publisher.
func (s *Speculation) Specialize(k value.Kind) bool {
	return s.kind.CompareAndSwap(uint32(value.Illegal), uint32(k))
}

// Respecialize replaces from with to. It reports false when another
// writer already replaced from.
func (s *Speculation) Respecialize(from, to value.Kind) bool {
	return s.kind.CompareAndSwap(uint32(from), uint32(to))
}

// Program is the root node. Top-level names are globals.
type Program struct {
	Name string
	Body []Node
}

func NewProgram(name string, body ...Node) *Program {
	return &Program{Name: name, Body: body}
}

func (p *Program) node() {}
func (p *Program) String() string {
	return joinNodes(p.Body, "\n")
}

// Block runs its statements in order and stops at the first return.
type Block struct {
	Body []Node
}

func NewBlock(body ...Node) *Block { return &Block{Body: body} }

func (b *Block) node() {}
func (b *Block) String() string {
	return "{ " + joinNodes(b.Body, "; ") + " }"
}

// Function is a function literal. Its parameters and every name it
// assigns are locals with slots in Desc; other names are globals.
type Function struct {
	Name       string
	Params     []string
	ParamSlots []frame.SlotID
	Body       *Block
	Desc       *frame.Descriptor
}

// NewFunction builds a function literal and resolves its locals. Nested
// function literals must be built first; they are resolved on their own.
func NewFunction(name string, params []string, body ...Node) *Function {
	fn := &Function{
		Name:   name,
		Params: params,
		Body:   NewBlock(body...),
		Desc:   frame.NewDescriptor(name),
	}
	resolve(fn)
	return fn
}

func (f *Function) node() {}
func (f *Function) String() string {
	return "def " + f.Name + "(" + strings.Join(f.Params, ", ") + ") " + f.Body.String()
}

// Def binds a function literal to name.
func Def(name string, params []string, body ...Node) *Assign {
	return Set(name, NewFunction(name, params, body...))
}

type Return struct {
	Value Node // nil returns Absent
}

func Ret(v Node) *Return { return &Return{Value: v} }

func (r *Return) node() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

type If struct {
	Cond Node
	Then *Block
	Else *Block // may be nil
}

func NewIf(cond Node, then []Node, els ...Node) *If {
	n := &If{Cond: cond, Then: NewBlock(then...)}
	if len(els) > 0 {
		n.Else = NewBlock(els...)
	}
	return n
}

func (i *If) node() {}
func (i *If) String() string {
	s := "if " + i.Cond.String() + " " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

type While struct {
	Cond Node
	Body *Block
}

func NewWhile(cond Node, body ...Node) *While {
	return &While{Cond: cond, Body: NewBlock(body...)}
}

func (w *While) node() {}
func (w *While) String() string {
	return "while " + w.Cond.String() + " " + w.Body.String()
}

// Assign writes a local slot, or a global when Slot is NoSlot.
type Assign struct {
	Name  string
	Slot  frame.SlotID
	Value Node
}

func Set(name string, v Node) *Assign {
	return &Assign{Name: name, Slot: frame.NoSlot, Value: v}
}

func (a *Assign) node() {}
func (a *Assign) String() string {
	return a.Name + " = " + a.Value.String()
}

// Ident reads a local slot, or a global when Slot is NoSlot.
type Ident struct {
	Name string
	Slot frame.SlotID
	Speculation
}

func Name(name string) *Ident {
	return &Ident{Name: name, Slot: frame.NoSlot}
}

func (i *Ident) IsLocal() bool { return i.Slot != frame.NoSlot }

func (i *Ident) node() {}
func (i *Ident) String() string { return i.Name }

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
