package ast

import "github.com/funvibe/adaptive/internal/frame"

// resolve declares fn's parameters and assigned names as locals and binds
// every identifier in the body to its slot. Names that are only read
// stay global.
func resolve(fn *Function) {
	fn.ParamSlots = make([]frame.SlotID, len(fn.Params))
	for i, p := range fn.Params {
		fn.ParamSlots[i] = fn.Desc.Declare(p)
	}
	Walk(fn.Body, func(n Node) bool {
		switch n := n.(type) {
		case *Function:
			return false
		case *Assign:
			fn.Desc.Declare(n.Name)
		}
		return true
	})
	Walk(fn.Body, func(n Node) bool {
		switch n := n.(type) {
		case *Function:
			return false
		case *Assign:
			n.Slot = fn.Desc.Lookup(n.Name)
		case *Ident:
			n.Slot = fn.Desc.Lookup(n.Name)
		}
		return true
	})
}
