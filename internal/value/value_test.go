package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxUnboxRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		box  ObjectType
	}{
		{"bool", BoolVal(true), BOOLEAN_OBJ},
		{"int", IntVal(-7), INTEGER_OBJ},
		{"long", LongVal(1 << 40), LONG_OBJ},
		{"double", DoubleVal(2.5), FLOAT_OBJ},
		{"string", StringVal("hi"), STRING_OBJ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := tt.in.Box()
			require.Equal(t, tt.box, obj.Type())
			back := Unbox(obj)
			assert.Equal(t, tt.in.Kind, back.Kind)
			assert.True(t, tt.in.Equals(back))
		})
	}
}

func TestNegativeIntBits(t *testing.T) {
	v := IntVal(-1)
	assert.Equal(t, int32(-1), v.AsInt())
	assert.Equal(t, "-1", v.Inspect())
}

func TestNumericEqualityWidens(t *testing.T) {
	assert.True(t, IntVal(3).Equals(LongVal(3)))
	assert.True(t, IntVal(3).Equals(DoubleVal(3.0)))
	assert.False(t, IntVal(3).Equals(DoubleVal(3.5)))
	assert.False(t, IntVal(1).Equals(BoolVal(true)))
	assert.False(t, StringVal("a").Equals(StringVal("b")))
}

func TestAbsent(t *testing.T) {
	a := AbsentVal()
	assert.True(t, a.IsAbsent())
	assert.Same(t, ABSENT, a.Box())
	assert.True(t, Unbox(nil).IsAbsent())
	assert.True(t, a.Equals(Value{}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Object", Ref.String())
	assert.Equal(t, "Double", Double.String())
	assert.True(t, Long.IsPrimitive())
	assert.False(t, String.IsPrimitive())
}
