package ast

import (
	"testing"

	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFunctionResolvesLocals(t *testing.T) {
	x := Name("x")
	total := Name("total")
	g := Name("g")
	fn := NewFunction("f", []string{"x"},
		Set("total", Int(0)),
		Set("total", Bin(total, OpAdd, x)),
		Ret(CallName("helper", g)),
	)

	assert.Equal(t, 2, fn.Desc.Size())
	assert.Equal(t, []frame.SlotID{0}, fn.ParamSlots)
	assert.Equal(t, frame.SlotID(0), x.Slot)
	assert.Equal(t, frame.SlotID(1), total.Slot)
	assert.True(t, total.IsLocal())
	assert.False(t, g.IsLocal(), "read-only names are globals")

	assign := fn.Body.Body[0].(*Assign)
	assert.Equal(t, frame.SlotID(1), assign.Slot)
}

func TestNestedFunctionsResolveSeparately(t *testing.T) {
	innerRead := Name("y")
	inner := NewFunction("inner", nil, Set("y", Int(1)), Ret(innerRead))
	outerRead := Name("y")
	outer := NewFunction("outer", nil, Set("h", inner), Ret(outerRead))

	assert.Equal(t, frame.SlotID(0), innerRead.Slot)
	assert.False(t, outerRead.IsLocal())
	assert.Equal(t, 1, outer.Desc.Size())
	assert.Equal(t, frame.SlotID(0), outer.Desc.Lookup("h"))
}

func TestTopLevelStaysGlobal(t *testing.T) {
	prog := NewProgram("p", Set("a", Int(1)), Set("b", Name("a")))
	a := prog.Body[0].(*Assign)
	assert.Equal(t, frame.NoSlot, a.Slot)
	assert.Equal(t, "a = 1\nb = a", prog.String())
}

func TestCloneResetsSpeculation(t *testing.T) {
	read := Name("x")
	call := CallName("f", read)
	fn := NewFunction("g", []string{"x"}, Ret(call))

	require.True(t, read.Specialize(value.Int))
	site := call.SiteFor(callsite.InlinePolicy{})
	require.NotNil(t, site)
	assert.Same(t, site, call.SiteFor(callsite.InlinePolicy{Enabled: true}))

	body := Clone(fn.Body).(*Block)
	ret := body.Body[0].(*Return)
	cc := ret.Value.(*Call)
	assert.Nil(t, cc.Site())
	arg := cc.Args[0].(*Ident)
	assert.Equal(t, value.Illegal, arg.Kind())
	assert.Equal(t, read.Slot, arg.Slot)
	assert.NotSame(t, read, arg)
	assert.Equal(t, fn.Body.String(), body.String())
}

func TestSpeculation(t *testing.T) {
	var s Speculation
	assert.Equal(t, value.Illegal, s.Kind())
	assert.True(t, s.Specialize(value.Int))
	assert.False(t, s.Specialize(value.Double))
	assert.False(t, s.Respecialize(value.Double, value.Ref))
	assert.True(t, s.Respecialize(value.Int, value.Double))
	assert.Equal(t, value.Double, s.Kind())
}

func TestString(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{SliceOf(Name("xs"), Int(1), nil, Int(-1)), "xs[1::-1]"},
		{SliceOf(Name("xs"), nil, nil, nil), "xs[:]"},
		{Method(Name("xs"), "append", Double(2.5)), "xs.append(2.5)"},
		{SetField(Name("p"), "x", String("a")), `p.x = "a"`},
		{NewIf(Not(Bool(true)), []Node{Ret(nil)}, Ret(Int(1))), "if not true { return } else { return 1 }"},
		{SetAt(Name("xs"), Neg(Int(1)), List(Int(1), Long(2))), "xs[-1] = [1, 2]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.String())
	}
}
