package frame

import "github.com/funvibe/adaptive/internal/value"

// Slot kinds form a chain: Illegal < Boolean < Int < Double < Object.
// Joining two kinds picks the higher one, so widening is monotonic and
// applying it twice changes nothing.
func rank(k value.Kind) int {
	switch k {
	case value.Illegal:
		return 0
	case value.Boolean:
		return 1
	case value.Int:
		return 2
	case value.Double:
		return 3
	default:
		return 4
	}
}

// KindOf maps a value kind to the slot kind that can hold it unboxed.
func KindOf(k value.Kind) value.Kind {
	switch k {
	case value.Boolean, value.Int, value.Double:
		return k
	case value.Illegal:
		return value.Illegal
	default:
		return value.Ref
	}
}

// Join returns the least slot kind that covers both a and b.
func Join(a, b value.Kind) value.Kind {
	a, b = KindOf(a), KindOf(b)
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// coerce converts a primitive up the lattice to kind: booleans become 0
// or 1, ints become doubles. Other values are returned unchanged.
func coerce(v value.Value, kind value.Kind) value.Value {
	switch {
	case v.Kind == value.Boolean && kind == value.Int:
		return value.IntVal(boolBit(v))
	case v.Kind == value.Boolean && kind == value.Double:
		return value.DoubleVal(float64(boolBit(v)))
	case v.Kind == value.Int && kind == value.Double:
		return value.DoubleVal(float64(v.AsInt()))
	}
	return v
}

func boolBit(v value.Value) int32 {
	if v.AsBool() {
		return 1
	}
	return 0
}
