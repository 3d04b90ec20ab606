package ast

// Clone returns a deep copy of n with fresh speculation state: readers
// are unspecialized and calls have no site yet. Slot bindings and nested
// function literals are shared.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Program:
		return &Program{Name: n.Name, Body: cloneAll(n.Body)}
	case *Block:
		return cloneBlock(n)
	case *Function:
		return n
	case *Literal:
		return &Literal{Value: n.Value}
	case *Return:
		return &Return{Value: Clone(n.Value)}
	case *If:
		c := &If{Cond: Clone(n.Cond), Then: cloneBlock(n.Then)}
		if n.Else != nil {
			c.Else = cloneBlock(n.Else)
		}
		return c
	case *While:
		return &While{Cond: Clone(n.Cond), Body: cloneBlock(n.Body)}
	case *Assign:
		return &Assign{Name: n.Name, Slot: n.Slot, Value: Clone(n.Value)}
	case *Ident:
		return &Ident{Name: n.Name, Slot: n.Slot}
	case *Binary:
		return &Binary{Op: n.Op, Left: Clone(n.Left), Right: Clone(n.Right)}
	case *Unary:
		return &Unary{Op: n.Op, Operand: Clone(n.Operand)}
	case *Call:
		return &Call{Callee: Clone(n.Callee), Args: cloneAll(n.Args)}
	case *NewObject:
		return &NewObject{}
	case *GetAttr:
		return &GetAttr{Object: Clone(n.Object), Name: n.Name}
	case *SetAttr:
		return &SetAttr{Object: Clone(n.Object), Name: n.Name, Value: Clone(n.Value)}
	case *ListLiteral:
		return &ListLiteral{Elements: cloneAll(n.Elements), ElementKind: n.ElementKind}
	case *Index:
		return &Index{Target: Clone(n.Target), Index: Clone(n.Index)}
	case *SetIndex:
		return &SetIndex{Target: Clone(n.Target), Index: Clone(n.Index), Value: Clone(n.Value)}
	case *Slice:
		return &Slice{Target: Clone(n.Target), Start: Clone(n.Start), Stop: Clone(n.Stop), Step: Clone(n.Step)}
	case *MethodCall:
		return &MethodCall{Receiver: Clone(n.Receiver), Method: n.Method, Args: cloneAll(n.Args)}
	}
	panic("ast: Clone of unknown node " + n.String())
}

func cloneBlock(b *Block) *Block {
	return &Block{Body: cloneAll(b.Body)}
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
