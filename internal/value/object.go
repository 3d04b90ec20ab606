package value

import (
	"fmt"
	"hash/fnv"
	"math"
)

type ObjectType string

const (
	BOOLEAN_OBJ  = "BOOLEAN"
	INTEGER_OBJ  = "INTEGER"
	LONG_OBJ     = "LONG"
	FLOAT_OBJ    = "FLOAT"
	STRING_OBJ   = "STRING"
	ABSENT_OBJ   = "ABSENT"
	LIST_OBJ     = "LIST"
	INSTANCE_OBJ = "INSTANCE"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
)

// Object is the boxed representation every value can fall back to.
type Object interface {
	Type() ObjectType
	Inspect() string
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Bool is a boxed Boolean.
type Bool struct {
	Value bool
}

func (b *Bool) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Bool) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Bool) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Integer is a boxed 32-bit Int.
type Integer struct {
	Value int32
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) Hash() uint32     { return uint32(i.Value) }

// LongInteger is a boxed 64-bit Long.
type LongInteger struct {
	Value int64
}

func (l *LongInteger) Type() ObjectType { return LONG_OBJ }
func (l *LongInteger) Inspect() string  { return fmt.Sprintf("%d", l.Value) }
func (l *LongInteger) Hash() uint32 {
	return uint32(l.Value ^ (l.Value >> 32))
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return fmt.Sprintf("%g", f.Value) }
func (f *Float) Hash() uint32 {
	bits := math.Float64bits(f.Value)
	return uint32(bits ^ (bits >> 32))
}

// Str is a boxed String.
type Str struct {
	Value string
}

func (s *Str) Type() ObjectType { return STRING_OBJ }
func (s *Str) Inspect() string  { return fmt.Sprintf("%q", s.Value) }
func (s *Str) Hash() uint32     { return hashString(s.Value) }

// AbsentObject marks a location that was never assigned.
type AbsentObject struct{}

func (a *AbsentObject) Type() ObjectType { return ABSENT_OBJ }
func (a *AbsentObject) Inspect() string  { return "Absent" }
func (a *AbsentObject) Hash() uint32     { return 0 }

var (
	TRUE   = &Bool{Value: true}
	FALSE  = &Bool{Value: false}
	ABSENT = &AbsentObject{}
)

func nativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}
