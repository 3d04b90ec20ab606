package ast

import "github.com/funvibe/adaptive/internal/callsite"

// Walk traverses n depth-first. If fn returns false the node's children
// are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		walkAll(n.Body, fn)
	case *Block:
		walkAll(n.Body, fn)
	case *Function:
		Walk(n.Body, fn)
	case *Return:
		walkOpt(n.Value, fn)
	case *If:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		if n.Else != nil {
			Walk(n.Else, fn)
		}
	case *While:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *Assign:
		Walk(n.Value, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Unary:
		Walk(n.Operand, fn)
	case *Call:
		Walk(n.Callee, fn)
		walkAll(n.Args, fn)
	case *GetAttr:
		Walk(n.Object, fn)
	case *SetAttr:
		Walk(n.Object, fn)
		Walk(n.Value, fn)
	case *ListLiteral:
		walkAll(n.Elements, fn)
	case *Index:
		Walk(n.Target, fn)
		Walk(n.Index, fn)
	case *SetIndex:
		Walk(n.Target, fn)
		Walk(n.Index, fn)
		Walk(n.Value, fn)
	case *Slice:
		Walk(n.Target, fn)
		walkOpt(n.Start, fn)
		walkOpt(n.Stop, fn)
		walkOpt(n.Step, fn)
	case *MethodCall:
		Walk(n.Receiver, fn)
		walkAll(n.Args, fn)
	}
}

func walkAll(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		Walk(n, fn)
	}
}

func walkOpt(n Node, fn func(Node) bool) {
	if n != nil {
		Walk(n, fn)
	}
}

// Sites returns the call sites created so far under n, including those in
// function bodies. Calls that never ran have no site and are skipped.
func Sites(n Node) []*callsite.Site {
	var out []*callsite.Site
	Walk(n, func(n Node) bool {
		if c, ok := n.(*Call); ok {
			if s := c.Site(); s != nil {
				out = append(out, s)
			}
		}
		return true
	})
	return out
}
