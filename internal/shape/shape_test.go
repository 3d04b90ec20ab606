package shape

import (
	"testing"

	"github.com/funvibe/adaptive/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(t *testing.T) (*Object, *Object) {
	t.Helper()
	root := NewRoot(NewTable())
	return New(root), New(root)
}

func TestSameHistorySharesShape(t *testing.T) {
	a, b := newPair(t)
	SetField(a, "x", value.IntVal(1))
	SetField(a, "y", value.IntVal(2))
	SetField(b, "x", value.IntVal(3))
	SetField(b, "y", value.IntVal(4))
	assert.Same(t, a.Shape(), b.Shape())
	assert.Equal(t, []string{"x", "y"}, a.Shape().FieldNames())
	assert.Equal(t, 2, a.Shape().Table().Len())
}

func TestTableRootIsShared(t *testing.T) {
	table := NewTable()
	require.Same(t, table.Root(), table.Root())
	assert.NotSame(t, table.Root(), NewTable().Root())

	a, b := New(table.Root()), New(table.Root())
	SetField(a, "x", value.IntVal(1))
	SetField(b, "x", value.IntVal(2))
	assert.Same(t, a.Shape(), b.Shape())
	assert.Equal(t, 1, table.Len())
}

func TestDifferentOrderDifferentShape(t *testing.T) {
	a, b := newPair(t)
	SetField(a, "x", value.IntVal(1))
	SetField(a, "y", value.IntVal(2))
	SetField(b, "y", value.IntVal(3))
	SetField(b, "x", value.IntVal(4))
	assert.NotSame(t, a.Shape(), b.Shape())
}

func TestPrimitiveFastPath(t *testing.T) {
	a, _ := newPair(t)
	SetField(a, "n", value.IntVal(5))

	loc, ok := LocationOf(a, "n")
	require.True(t, ok)
	assert.Equal(t, value.Int, loc.Kind())

	v, err := GetField(a, "n", value.Int)
	require.NoError(t, err)
	assert.Equal(t, int32(5), v.AsInt())

	allocs := testing.AllocsPerRun(100, func() {
		SetField(a, "n", value.IntVal(6))
		_, _ = GetField(a, "n", value.Int)
	})
	assert.Zero(t, allocs)
}

func TestFieldGeneralizationVisibleToSharers(t *testing.T) {
	a, b := newPair(t)
	SetField(a, "f", value.IntVal(10))
	SetField(b, "f", value.IntVal(20))

	SetField(b, "f", value.StringVal("twenty"))

	locA, _ := LocationOf(a, "f")
	locB, _ := LocationOf(b, "f")
	assert.Same(t, locA, locB)
	assert.Equal(t, Boxed, locA.Kind())

	// a still holds its Int, the boxed reader finds it.
	_, err := GetField(a, "f", Boxed)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Equal(t, int32(10), GetBoxed(a, "f").AsInt())
	assert.Equal(t, "twenty", GetBoxed(b, "f").AsString())

	// Later writes of Ints go boxed.
	SetField(a, "f", value.IntVal(11))
	v, err := GetField(a, "f", Boxed)
	require.NoError(t, err)
	assert.Equal(t, int32(11), v.AsInt())
}

func TestGeneralizationIsIdempotent(t *testing.T) {
	a, _ := newPair(t)
	SetField(a, "f", value.DoubleVal(1))
	id, _ := a.Shape().Lookup("f")
	table := a.Shape().Table()
	assert.True(t, table.Generalize(id))
	assert.False(t, table.Generalize(id))
	SetField(a, "f", value.DoubleVal(2))
	assert.Equal(t, Boxed, table.Location(id).Kind())
}

func TestUnassignedReadsAbsent(t *testing.T) {
	a, b := newPair(t)
	SetField(a, "x", value.StringVal("s"))
	SetField(b, "x", value.StringVal("t"))
	SetField(b, "x", value.AbsentVal())

	v, err := GetField(b, "x", Boxed)
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())
	assert.True(t, GetBoxed(b, "missing").IsAbsent())
	assert.Empty(t, b.Fields())
	assert.Equal(t, []string{"x"}, a.Fields())
}

func TestObjectInspectAndEqual(t *testing.T) {
	a, b := newPair(t)
	SetField(a, "x", value.IntVal(1))
	SetField(a, "name", value.StringVal("p"))
	SetField(b, "x", value.IntVal(1))
	SetField(b, "name", value.StringVal("p"))
	assert.Equal(t, `{x: 1, name: "p"}`, a.Inspect())
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	SetField(b, "x", value.DoubleVal(1.5))
	assert.False(t, a.Equal(b))
}
