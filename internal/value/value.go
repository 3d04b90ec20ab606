package value

import (
	"fmt"
	"math"
)

// Kind identifies the representation stored in a Value.
type Kind uint8

const (
	Illegal Kind = iota // never written
	Boolean
	Int
	Long
	Double
	String
	Ref // boxed object reference
	Absent
)

var kindNames = [...]string{
	Illegal: "Illegal",
	Boolean: "Boolean",
	Int:     "Int",
	Long:    "Long",
	Double:  "Double",
	String:  "String",
	Ref:     "Object",
	Absent:  "Absent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsPrimitive reports whether values of this kind fit in the Bits word.
func (k Kind) IsPrimitive() bool {
	return k == Boolean || k == Int || k == Long || k == Double
}

// Value is a stack-allocated tagged union.
// Primitives live in Bits; String and Ref keep their object in Ref so
// the GC sees them.
type Value struct {
	Kind Kind
	Bits uint64
	Ref  Object
}

// Constructors

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{Kind: Boolean, Bits: data}
}

func IntVal(v int32) Value {
	return Value{Kind: Int, Bits: uint64(int64(v))}
}

func LongVal(v int64) Value {
	return Value{Kind: Long, Bits: uint64(v)}
}

func DoubleVal(v float64) Value {
	return Value{Kind: Double, Bits: math.Float64bits(v)}
}

func StringVal(s string) Value {
	return Value{Kind: String, Ref: &Str{Value: s}}
}

func RefVal(o Object) Value {
	return Value{Kind: Ref, Ref: o}
}

// AbsentVal is the sentinel returned for locations that were never assigned.
func AbsentVal() Value {
	return Value{Kind: Absent, Ref: ABSENT}
}

// FromBits rebuilds a primitive value from raw storage bits.
func FromBits(kind Kind, bits uint64) Value {
	return Value{Kind: kind, Bits: bits}
}

// Accessors

func (v Value) AsBool() bool      { return v.Bits == 1 }
func (v Value) AsInt() int32      { return int32(int64(v.Bits)) }
func (v Value) AsLong() int64     { return int64(v.Bits) }
func (v Value) AsDouble() float64 { return math.Float64frombits(v.Bits) }

func (v Value) AsString() string {
	if s, ok := v.Ref.(*Str); ok {
		return s.Value
	}
	return ""
}

func (v Value) IsAbsent() bool { return v.Kind == Absent || v.Kind == Illegal }

// IsNumber reports whether the value is Int, Long or Double.
func (v Value) IsNumber() bool {
	return v.Kind == Int || v.Kind == Long || v.Kind == Double
}

// AsFloat64 widens any numeric value to float64.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case Int:
		return float64(v.AsInt())
	case Long:
		return float64(v.AsLong())
	case Double:
		return v.AsDouble()
	}
	return math.NaN()
}

// Box converts a Value to its generic object representation.
func (v Value) Box() Object {
	switch v.Kind {
	case Boolean:
		return nativeBool(v.AsBool())
	case Int:
		return &Integer{Value: v.AsInt()}
	case Long:
		return &LongInteger{Value: v.AsLong()}
	case Double:
		return &Float{Value: v.AsDouble()}
	case String, Ref:
		if v.Ref == nil {
			return ABSENT
		}
		return v.Ref
	default:
		return ABSENT
	}
}

// Unbox is the inverse of Box: primitive objects come back as primitive values.
func Unbox(obj Object) Value {
	switch o := obj.(type) {
	case *Bool:
		return BoolVal(o.Value)
	case *Integer:
		return IntVal(o.Value)
	case *LongInteger:
		return LongVal(o.Value)
	case *Float:
		return DoubleVal(o.Value)
	case *Str:
		return Value{Kind: String, Ref: o}
	case *AbsentObject:
		return AbsentVal()
	case nil:
		return AbsentVal()
	default:
		return RefVal(obj)
	}
}

// Equals compares by value, widening numbers so Int 1 == Double 1.0.
func (v Value) Equals(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		if v.Kind == other.Kind {
			if v.Kind == Double {
				return v.AsDouble() == other.AsDouble()
			}
			return v.Bits == other.Bits
		}
		if v.Kind != Double && other.Kind != Double {
			return v.asInt64() == other.asInt64()
		}
		return v.AsFloat64() == other.AsFloat64()
	}
	if v.Kind != other.Kind {
		return v.IsAbsent() && other.IsAbsent()
	}
	switch v.Kind {
	case Boolean:
		return v.Bits == other.Bits
	case String:
		return v.AsString() == other.AsString()
	case Ref:
		if eq, ok := v.Ref.(interface{ Equal(Object) bool }); ok {
			return eq.Equal(other.Ref)
		}
		return v.Ref == other.Ref
	default:
		return true
	}
}

func (v Value) asInt64() int64 {
	if v.Kind == Int {
		return int64(v.AsInt())
	}
	return v.AsLong()
}

// Inspect returns string representation
func (v Value) Inspect() string {
	switch v.Kind {
	case Boolean:
		return fmt.Sprintf("%t", v.AsBool())
	case Int:
		return fmt.Sprintf("%d", v.AsInt())
	case Long:
		return fmt.Sprintf("%d", v.AsLong())
	case Double:
		return fmt.Sprintf("%g", v.AsDouble())
	case String, Ref:
		if v.Ref != nil {
			return v.Ref.Inspect()
		}
		return "<nil obj>"
	default:
		return "Absent"
	}
}

func (v Value) String() string { return v.Inspect() }
