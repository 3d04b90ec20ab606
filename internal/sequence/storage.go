// Package sequence implements homogeneous container storage.
//
// A Storage keeps its elements unboxed in one of three typed buffers (Int,
// Long, Double) for as long as every element fits, and switches once and for
// all to boxed Object storage the first time a write does not fit.
package sequence

import (
	"cmp"
	"fmt"

	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

// Storage is a closed sum over the four backing strategies. Exactly one
// buffer is non-nil and kind says which.
type Storage struct {
	kind    value.Kind
	ints    *buffer[int32]
	longs   *buffer[int64]
	doubles *buffer[float64]
	objects *buffer[value.Object]
}

func badKind(k value.Kind) string {
	return fmt.Sprintf("sequence: no storage strategy for %s", k)
}

// New creates an empty storage specialized to kind.
func New(kind value.Kind) *Storage {
	return NewWithCapacity(kind, 0)
}

func NewWithCapacity(kind value.Kind, capacity int) *Storage {
	switch kind {
	case value.Int:
		return &Storage{kind: kind, ints: &buffer[int32]{values: make([]int32, capacity)}}
	case value.Long:
		return &Storage{kind: kind, longs: &buffer[int64]{values: make([]int64, capacity)}}
	case value.Double:
		return &Storage{kind: kind, doubles: &buffer[float64]{values: make([]float64, capacity)}}
	case value.Ref:
		return &Storage{kind: kind, objects: &buffer[value.Object]{values: make([]value.Object, capacity)}}
	}
	panic(badKind(kind))
}

// KindFor picks the narrowest strategy that holds every value. Empty and
// heterogeneous content is boxed.
func KindFor(values []value.Value) value.Kind {
	if len(values) == 0 {
		return value.Ref
	}
	kind := value.Illegal
	for _, v := range values {
		switch {
		case v.Kind == value.Int && (kind == value.Illegal || kind == value.Int):
			kind = value.Int
		case (v.Kind == value.Int || v.Kind == value.Long) && (kind == value.Illegal || kind == value.Int || kind == value.Long):
			kind = value.Long
		case v.Kind == value.Double && (kind == value.Illegal || kind == value.Double):
			kind = value.Double
		default:
			return value.Ref
		}
	}
	return kind
}

// FromValues builds a storage of KindFor(values).
func FromValues(values []value.Value) *Storage {
	s := NewWithCapacity(KindFor(values), len(values))
	for _, v := range values {
		s.storeAppend(v)
	}
	return s
}

func (s *Storage) Kind() value.Kind { return s.kind }

func (s *Storage) Len() int {
	switch s.kind {
	case value.Int:
		return s.ints.length
	case value.Long:
		return s.longs.length
	case value.Double:
		return s.doubles.length
	case value.Ref:
		return s.objects.length
	}
	panic(badKind(s.kind))
}

func (s *Storage) Cap() int {
	switch s.kind {
	case value.Int:
		return s.ints.capacity()
	case value.Long:
		return s.longs.capacity()
	case value.Double:
		return s.doubles.capacity()
	case value.Ref:
		return s.objects.capacity()
	}
	panic(badKind(s.kind))
}

// EnsureCapacity grows the physical buffer without changing Len.
func (s *Storage) EnsureCapacity(n int) {
	switch s.kind {
	case value.Int:
		s.ints.ensureCapacity(n)
	case value.Long:
		s.longs.ensureCapacity(n)
	case value.Double:
		s.doubles.ensureCapacity(n)
	case value.Ref:
		s.objects.ensureCapacity(n)
	default:
		panic(badKind(s.kind))
	}
}

// accepts reports whether v can be stored without generalizing.
func (s *Storage) accepts(v value.Value) bool {
	switch s.kind {
	case value.Int:
		return v.Kind == value.Int
	case value.Long:
		return v.Kind == value.Int || v.Kind == value.Long
	case value.Double:
		return v.Kind == value.Double
	case value.Ref:
		return true
	}
	panic(badKind(s.kind))
}

func asLong(v value.Value) int64 {
	if v.Kind == value.Int {
		return int64(v.AsInt())
	}
	return v.AsLong()
}

// at reads an already normalized index.
func (s *Storage) at(idx int) value.Value {
	switch s.kind {
	case value.Int:
		return value.IntVal(s.ints.values[idx])
	case value.Long:
		return value.LongVal(s.longs.values[idx])
	case value.Double:
		return value.DoubleVal(s.doubles.values[idx])
	case value.Ref:
		return value.Unbox(s.objects.values[idx])
	}
	panic(badKind(s.kind))
}

// Generalize boxes every element and switches to Object storage. Asking an
// Object storage to generalize means the boxed fallback was exhausted, which
// cannot happen unless an invariant is already broken.
func (s *Storage) Generalize() {
	if s.kind == value.Ref {
		panic("sequence: generalization requested on boxed storage")
	}
	n := s.Len()
	boxed := &buffer[value.Object]{values: make([]value.Object, max(s.Cap(), n)), length: n}
	for i := 0; i < n; i++ {
		boxed.values[i] = s.at(i).Box()
	}
	log.Debug().
		Stringer("from", s.kind).
		Int("length", n).
		Msg("container storage generalized")
	profile.Record(profile.StorageGeneralized)
	s.kind = value.Ref
	s.ints, s.longs, s.doubles = nil, nil, nil
	s.objects = boxed
}

func (s *Storage) generalizeFor(v value.Value) {
	if !s.accepts(v) {
		s.Generalize()
	}
}

// Get returns the element at a possibly negative index.
func (s *Storage) Get(idx int) (value.Value, error) {
	i, err := NormalizeIndex(idx, s.Len())
	if err != nil {
		return value.Value{}, err
	}
	return s.at(i), nil
}

// Set replaces the element at idx, generalizing first if v does not fit.
func (s *Storage) Set(idx int, v value.Value) error {
	i, err := NormalizeIndex(idx, s.Len())
	if err != nil {
		return err
	}
	s.generalizeFor(v)
	switch s.kind {
	case value.Int:
		s.ints.values[i] = v.AsInt()
	case value.Long:
		s.longs.values[i] = asLong(v)
	case value.Double:
		s.doubles.values[i] = v.AsDouble()
	case value.Ref:
		s.objects.values[i] = v.Box()
	default:
		panic(badKind(s.kind))
	}
	return nil
}

// storeAppend appends v, which must already be accepted.
func (s *Storage) storeAppend(v value.Value) {
	switch s.kind {
	case value.Int:
		s.ints.append(v.AsInt())
	case value.Long:
		s.longs.append(asLong(v))
	case value.Double:
		s.doubles.append(v.AsDouble())
	case value.Ref:
		s.objects.append(v.Box())
	default:
		panic(badKind(s.kind))
	}
}

func (s *Storage) Append(v value.Value) {
	s.generalizeFor(v)
	s.storeAppend(v)
}

// Insert places v before idx; idx may equal Len.
func (s *Storage) Insert(idx int, v value.Value) error {
	i, err := normalizeInsert(idx, s.Len())
	if err != nil {
		return err
	}
	s.generalizeFor(v)
	switch s.kind {
	case value.Int:
		s.ints.insert(i, v.AsInt())
	case value.Long:
		s.longs.insert(i, asLong(v))
	case value.Double:
		s.doubles.insert(i, v.AsDouble())
	case value.Ref:
		s.objects.insert(i, v.Box())
	default:
		panic(badKind(s.kind))
	}
	return nil
}

// Pop removes and returns the element at idx.
func (s *Storage) Pop(idx int) (value.Value, error) {
	i, err := NormalizeIndex(idx, s.Len())
	if err != nil {
		return value.Value{}, err
	}
	switch s.kind {
	case value.Int:
		return value.IntVal(s.ints.delete(i)), nil
	case value.Long:
		return value.LongVal(s.longs.delete(i)), nil
	case value.Double:
		return value.DoubleVal(s.doubles.delete(i)), nil
	case value.Ref:
		return value.Unbox(s.objects.delete(i)), nil
	}
	panic(badKind(s.kind))
}

func (s *Storage) Delete(idx int) error {
	_, err := s.Pop(idx)
	return err
}

// IndexOf returns the first index holding a value equal to v, or -1.
func (s *Storage) IndexOf(v value.Value) int {
	switch {
	case s.kind == value.Int && v.Kind == value.Int:
		return indexIn(s.ints.live(), v.AsInt())
	case s.kind == value.Long && (v.Kind == value.Int || v.Kind == value.Long):
		return indexIn(s.longs.live(), asLong(v))
	case s.kind == value.Double && v.Kind == value.Double:
		return indexIn(s.doubles.live(), v.AsDouble())
	}
	for i, n := 0, s.Len(); i < n; i++ {
		if s.at(i).Equals(v) {
			return i
		}
	}
	return -1
}

func indexIn[T comparable](values []T, v T) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// Slice returns a new independent storage of the same kind holding
// elements start, start+step, ... before stop. Bounds follow ResolveSlice.
func (s *Storage) Slice(start, stop, step int) (*Storage, error) {
	return s.SliceBounds(&start, &stop, step)
}

// SliceBounds is Slice with optional bounds.
func (s *Storage) SliceBounds(start, stop *int, step int) (*Storage, error) {
	lo, _, n, err := ResolveSlice(start, stop, step, s.Len())
	if err != nil {
		return nil, err
	}
	switch s.kind {
	case value.Int:
		return &Storage{kind: s.kind, ints: s.ints.slice(lo, step, n)}, nil
	case value.Long:
		return &Storage{kind: s.kind, longs: s.longs.slice(lo, step, n)}, nil
	case value.Double:
		return &Storage{kind: s.kind, doubles: s.doubles.slice(lo, step, n)}, nil
	case value.Ref:
		return &Storage{kind: s.kind, objects: s.objects.slice(lo, step, n)}, nil
	}
	panic(badKind(s.kind))
}

// Copy returns an independent storage with the same kind and elements.
func (s *Storage) Copy() *Storage {
	switch s.kind {
	case value.Int:
		return &Storage{kind: s.kind, ints: s.ints.clone()}
	case value.Long:
		return &Storage{kind: s.kind, longs: s.longs.clone()}
	case value.Double:
		return &Storage{kind: s.kind, doubles: s.doubles.clone()}
	case value.Ref:
		return &Storage{kind: s.kind, objects: s.objects.clone()}
	}
	panic(badKind(s.kind))
}

// Extend appends every element of other.
func (s *Storage) Extend(other *Storage) {
	if s.kind == other.kind {
		switch s.kind {
		case value.Int:
			s.ints.extend(other.ints.live())
		case value.Long:
			s.longs.extend(other.longs.live())
		case value.Double:
			s.doubles.extend(other.doubles.live())
		case value.Ref:
			s.objects.extend(other.objects.live())
		default:
			panic(badKind(s.kind))
		}
		return
	}
	n := other.Len()
	s.EnsureCapacity(s.Len() + n)
	for i := 0; i < n; i++ {
		s.Append(other.at(i))
	}
}

// Reverse works in place on [0, Len).
func (s *Storage) Reverse() {
	switch s.kind {
	case value.Int:
		s.ints.reverse()
	case value.Long:
		s.longs.reverse()
	case value.Double:
		s.doubles.reverse()
	case value.Ref:
		s.objects.reverse()
	default:
		panic(badKind(s.kind))
	}
}

// Sort orders [0, Len) ascending. Boxed elements must be all numbers, all
// strings or all booleans; otherwise ErrUnorderable is returned and the
// storage is left as it was.
func (s *Storage) Sort() error {
	switch s.kind {
	case value.Int:
		s.ints.sortWith(cmp.Compare[int32], nil)
	case value.Long:
		s.longs.sortWith(cmp.Compare[int64], nil)
	case value.Double:
		s.doubles.sortWith(cmp.Compare[float64], nil)
	case value.Ref:
		var failed bool
		s.objects.sortWith(func(a, b value.Object) int {
			c, ok := compareBoxed(value.Unbox(a), value.Unbox(b))
			if !ok {
				failed = true
			}
			return c
		}, func() bool { return failed })
		if failed {
			return ErrUnorderable
		}
	default:
		panic(badKind(s.kind))
	}
	return nil
}

func compareBoxed(a, b value.Value) (int, bool) {
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.Kind != value.Double && b.Kind != value.Double {
			return cmp.Compare(asLong(a), asLong(b)), true
		}
		return cmp.Compare(a.AsFloat64(), b.AsFloat64()), true
	case a.Kind == value.String && b.Kind == value.String:
		return cmp.Compare(a.AsString(), b.AsString()), true
	case a.Kind == value.Boolean && b.Kind == value.Boolean:
		return cmp.Compare(a.Bits, b.Bits), true
	}
	return 0, false
}

// Equal compares lengths, then elements. Storages of different kinds are
// compared through their boxed values.
func (s *Storage) Equal(other *Storage) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.kind == other.kind {
		switch s.kind {
		case value.Int:
			return equalIn(s.ints.live(), other.ints.live())
		case value.Long:
			return equalIn(s.longs.live(), other.longs.live())
		case value.Double:
			return equalIn(s.doubles.live(), other.doubles.live())
		}
	}
	for i, n := 0, s.Len(); i < n; i++ {
		if !s.at(i).Equals(other.at(i)) {
			return false
		}
	}
	return true
}

func equalIn[T comparable](a, b []T) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Min and Max need mutually orderable elements, as Sort does.
func (s *Storage) Min() (value.Value, error) { return s.extreme(-1) }
func (s *Storage) Max() (value.Value, error) { return s.extreme(1) }

func (s *Storage) extreme(sign int) (value.Value, error) {
	n := s.Len()
	if n == 0 {
		return value.Value{}, ErrEmpty
	}
	best := s.at(0)
	for i := 1; i < n; i++ {
		v := s.at(i)
		c, ok := compareBoxed(v, best)
		if !ok {
			return value.Value{}, ErrUnorderable
		}
		if c*sign > 0 {
			best = v
		}
	}
	return best, nil
}

// Values returns a copy of the live elements.
func (s *Storage) Values() []value.Value {
	n := s.Len()
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		out[i] = s.at(i)
	}
	return out
}

// Minimize drops capacity slack.
func (s *Storage) Minimize() {
	switch s.kind {
	case value.Int:
		s.ints.minimize()
	case value.Long:
		s.longs.minimize()
	case value.Double:
		s.doubles.minimize()
	case value.Ref:
		s.objects.minimize()
	default:
		panic(badKind(s.kind))
	}
}
