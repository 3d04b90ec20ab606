package ast

import (
	"github.com/funvibe/adaptive/internal/value"
)

// ListLiteral builds a list. ElementKind, when not Illegal, forces the
// initial storage kind; otherwise it is chosen from the elements.
type ListLiteral struct {
	Elements    []Node
	ElementKind value.Kind
}

func List(elems ...Node) *ListLiteral {
	return &ListLiteral{Elements: elems}
}

// TypedList is a list literal whose storage starts as kind even when empty.
func TypedList(kind value.Kind, elems ...Node) *ListLiteral {
	return &ListLiteral{Elements: elems, ElementKind: kind}
}

func (l *ListLiteral) node() {}
func (l *ListLiteral) String() string {
	return "[" + joinNodes(l.Elements, ", ") + "]"
}

type Index struct {
	Target Node
	Index  Node
}

func At(target, idx Node) *Index { return &Index{Target: target, Index: idx} }

func (i *Index) node()          {}
func (i *Index) String() string { return i.Target.String() + "[" + i.Index.String() + "]" }

type SetIndex struct {
	Target Node
	Index  Node
	Value  Node
}

func SetAt(target, idx, v Node) *SetIndex {
	return &SetIndex{Target: target, Index: idx, Value: v}
}

func (s *SetIndex) node() {}
func (s *SetIndex) String() string {
	return s.Target.String() + "[" + s.Index.String() + "] = " + s.Value.String()
}

// Slice is target[start:stop:step]; nil bounds are open.
type Slice struct {
	Target            Node
	Start, Stop, Step Node
}

func SliceOf(target, start, stop, step Node) *Slice {
	return &Slice{Target: target, Start: start, Stop: stop, Step: step}
}

func (s *Slice) node() {}
func (s *Slice) String() string {
	str := s.Target.String() + "["
	if s.Start != nil {
		str += s.Start.String()
	}
	str += ":"
	if s.Stop != nil {
		str += s.Stop.String()
	}
	if s.Step != nil {
		str += ":" + s.Step.String()
	}
	return str + "]"
}

// MethodCall invokes a built-in method on a container.
type MethodCall struct {
	Receiver Node
	Method   string
	Args     []Node
}

func Method(recv Node, method string, args ...Node) *MethodCall {
	return &MethodCall{Receiver: recv, Method: method, Args: args}
}

func (m *MethodCall) node() {}
func (m *MethodCall) String() string {
	return m.Receiver.String() + "." + m.Method + "(" + joinNodes(m.Args, ", ") + ")"
}
