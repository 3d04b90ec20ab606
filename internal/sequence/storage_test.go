package sequence

import (
	"testing"

	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(xs ...int32) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.IntVal(x)
	}
	return out
}

func withRecorder(t *testing.T) *profile.Recorder {
	t.Helper()
	r := profile.NewRecorder()
	prev := profile.Install(r)
	t.Cleanup(func() { profile.Install(prev) })
	return r
}

func TestAppendPreservesKind(t *testing.T) {
	samples := map[value.Kind]value.Value{
		value.Int:    value.IntVal(7),
		value.Long:   value.LongVal(1 << 40),
		value.Double: value.DoubleVal(2.25),
		value.Ref:    value.StringVal("s"),
	}
	for kind, v := range samples {
		t.Run(kind.String(), func(t *testing.T) {
			s := New(kind)
			for i := 0; i < 20; i++ {
				before := s.Len()
				s.Append(v)
				assert.Equal(t, kind, s.Kind())
				assert.Equal(t, before+1, s.Len())
				last, err := s.Get(-1)
				require.NoError(t, err)
				assert.True(t, v.Equals(last))
			}
		})
	}
}

func TestGeneralizationHappensOnce(t *testing.T) {
	rec := withRecorder(t)
	s := New(value.Int)
	s.Append(value.IntVal(1))
	s.Append(value.IntVal(2))
	s.Append(value.IntVal(3))
	assert.Equal(t, value.Int, s.Kind())
	assert.Zero(t, rec.Count(profile.StorageGeneralized))

	s.Append(value.DoubleVal(4.5))
	assert.Equal(t, value.Ref, s.Kind())
	assert.Equal(t, int64(1), rec.Count(profile.StorageGeneralized))

	want := NewListOf(value.IntVal(1), value.IntVal(2), value.IntVal(3), value.DoubleVal(4.5))
	assert.True(t, s.Equal(want.Storage()))
	assert.Equal(t, "[1, 2, 3, 4.5]", NewList(s).Inspect())

	s.Append(value.StringVal("x"))
	assert.Equal(t, int64(1), rec.Count(profile.StorageGeneralized))
}

func TestLongAcceptsInt(t *testing.T) {
	s := FromValues([]value.Value{value.LongVal(1 << 33), value.IntVal(2)})
	assert.Equal(t, value.Long, s.Kind())
	s.Append(value.IntVal(3))
	assert.Equal(t, value.Long, s.Kind())
	v, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, value.Long, v.Kind)
	assert.Equal(t, int64(3), v.AsLong())
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, value.Ref, KindFor(nil))
	assert.Equal(t, value.Int, KindFor(ints(1, 2)))
	assert.Equal(t, value.Long, KindFor([]value.Value{value.IntVal(1), value.LongVal(2)}))
	assert.Equal(t, value.Double, KindFor([]value.Value{value.DoubleVal(1)}))
	assert.Equal(t, value.Ref, KindFor([]value.Value{value.IntVal(1), value.DoubleVal(2)}))
	assert.Equal(t, value.Ref, KindFor([]value.Value{value.BoolVal(true)}))
}

func TestIndexNormalization(t *testing.T) {
	s := FromValues(ints(10, 11, 12, 13, 14))
	i, err := NormalizeIndex(-1, s.Len())
	require.NoError(t, err)
	assert.Equal(t, 4, i)

	_, err = s.Get(5)
	var ie *IndexError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 5, ie.Index)

	_, err = s.Get(-6)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Set(7, value.IntVal(0)), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Delete(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Insert(6, value.IntVal(0)), ErrIndexOutOfRange)
}

func TestSliceRoundTripIsIndependent(t *testing.T) {
	for _, src := range []*Storage{
		FromValues(ints(1, 2, 3, 4)),
		FromValues([]value.Value{value.DoubleVal(1.5), value.DoubleVal(2.5)}),
		FromValues([]value.Value{value.LongVal(1 << 40)}),
	} {
		cp, err := src.Slice(0, src.Len(), 1)
		require.NoError(t, err)
		assert.Equal(t, src.Kind(), cp.Kind())
		assert.True(t, src.Equal(cp))

		first, _ := src.Get(0)
		cp.Append(value.StringVal("mutated"))
		require.NoError(t, cp.Set(0, value.StringVal("changed")))
		again, _ := src.Get(0)
		assert.True(t, first.Equals(again))
		assert.NotEqual(t, src.Len(), cp.Len())
	}
}

func TestSliceSteps(t *testing.T) {
	s := FromValues(ints(0, 1, 2, 3, 4, 5, 6, 7, 8, 9))
	tests := []struct {
		name              string
		start, stop, step int
		want              []value.Value
	}{
		{"stride", 1, 8, 3, ints(1, 4, 7)},
		{"negative step", 8, 1, -3, ints(8, 5, 2)},
		{"negative bounds", -3, -1, 1, ints(7, 8)},
		{"clamped", -100, 100, 4, ints(0, 4, 8)},
		{"empty", 5, 2, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Slice(tt.start, tt.stop, tt.step)
			require.NoError(t, err)
			assert.Equal(t, value.Int, got.Kind())
			assert.True(t, FromValues(tt.want).Equal(got), "got %s", NewList(got).Inspect())
		})
	}

	_, err := s.Slice(0, 3, 0)
	assert.ErrorIs(t, err, ErrZeroStep)

	rev, err := s.SliceBounds(nil, nil, -1)
	require.NoError(t, err)
	assert.Equal(t, "[9, 8, 7, 6, 5, 4, 3, 2, 1, 0]", NewList(rev).Inspect())
}

func TestSliceLength(t *testing.T) {
	assert.Equal(t, 3, SliceLength(1, 8, 3))
	assert.Equal(t, 0, SliceLength(3, 3, 1))
	assert.Equal(t, 10, SliceLength(9, -1, -1))
	assert.Equal(t, 0, SliceLength(0, 5, -1))
}

func TestInsertDeleteIndexOf(t *testing.T) {
	s := FromValues(ints(1, 2, 4))
	require.NoError(t, s.Insert(2, value.IntVal(3)))
	require.NoError(t, s.Insert(s.Len(), value.IntVal(5)))
	require.NoError(t, s.Insert(-5, value.IntVal(0)))
	assert.Equal(t, "[0, 1, 2, 3, 4, 5]", NewList(s).Inspect())

	assert.Equal(t, 3, s.IndexOf(value.IntVal(3)))
	assert.Equal(t, 3, s.IndexOf(value.DoubleVal(3)))
	assert.Equal(t, -1, s.IndexOf(value.IntVal(42)))

	v, err := s.Pop(0)
	require.NoError(t, err)
	assert.Equal(t, int32(0), v.AsInt())
	require.NoError(t, s.Delete(-1))
	assert.Equal(t, "[1, 2, 3, 4]", NewList(s).Inspect())

	require.NoError(t, s.Insert(0, value.StringVal("a")))
	assert.Equal(t, value.Ref, s.Kind())
	assert.Equal(t, 0, s.IndexOf(value.StringVal("a")))
}

func TestCapacityDecoupledFromLength(t *testing.T) {
	s := New(value.Double)
	for i := 0; i < 100; i++ {
		s.Append(value.DoubleVal(float64(i)))
		assert.LessOrEqual(t, s.Len(), s.Cap())
	}
	assert.Equal(t, 100, s.Len())
	assert.Equal(t, 128, s.Cap())

	s.EnsureCapacity(500)
	assert.Equal(t, 100, s.Len())
	assert.GreaterOrEqual(t, s.Cap(), 500)

	s.Minimize()
	assert.Equal(t, 100, s.Cap())
}

func TestReverseAndSortKeepSlack(t *testing.T) {
	s := FromValues(ints(3, 1, 2))
	s.EnsureCapacity(16)
	s.Reverse()
	assert.Equal(t, "[2, 1, 3]", NewList(s).Inspect())
	require.NoError(t, s.Sort())
	assert.Equal(t, "[1, 2, 3]", NewList(s).Inspect())
	assert.Equal(t, 16, s.Cap())
}

func TestSortBoxed(t *testing.T) {
	s := NewListOf(value.IntVal(3), value.DoubleVal(1.5), value.LongVal(2)).Storage()
	require.Equal(t, value.Ref, s.Kind())
	require.NoError(t, s.Sort())
	assert.Equal(t, "[1.5, 2, 3]", NewList(s).Inspect())

	mixed := NewListOf(value.IntVal(1), value.StringVal("a")).Storage()
	assert.ErrorIs(t, mixed.Sort(), ErrUnorderable)
	assert.Equal(t, `[1, "a"]`, NewList(mixed).Inspect())
}

func TestEqualityAcrossStrategies(t *testing.T) {
	a := FromValues(ints(1, 2, 3))
	b := NewListOf(value.IntVal(1), value.IntVal(2), value.IntVal(3)).Storage()
	b.Generalize()
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(FromValues(ints(1, 2))))
	assert.False(t, a.Equal(FromValues(ints(1, 2, 4))))
	assert.Panics(t, func() { b.Generalize() })
}

func TestExtendAndMinMax(t *testing.T) {
	s := FromValues(ints(5, 1))
	s.Extend(FromValues(ints(9)))
	assert.Equal(t, value.Int, s.Kind())
	s.Extend(FromValues([]value.Value{value.DoubleVal(0.5)}))
	assert.Equal(t, value.Ref, s.Kind())
	assert.Equal(t, "[5, 1, 9, 0.5]", NewList(s).Inspect())

	lo, err := s.Min()
	require.NoError(t, err)
	assert.Equal(t, 0.5, lo.AsDouble())
	hi, err := s.Max()
	require.NoError(t, err)
	assert.Equal(t, int32(9), hi.AsInt())

	_, err = New(value.Int).Max()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCopyIsIndependent(t *testing.T) {
	s := FromValues(ints(1))
	cp := s.Copy()
	cp.Append(value.IntVal(2))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, cp.Len())
}
