package sequence

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrZeroStep        = errors.New("slice step cannot be zero")
	ErrUnorderable     = errors.New("elements are not mutually orderable")
	ErrEmpty           = errors.New("sequence is empty")
)

// IndexError reports an index that fell outside the sequence after
// normalization.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index out of range: %d (length %d)", e.Index, e.Length)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// NormalizeIndex maps negative indices from the end and checks the result
// lies in [0, length).
func NormalizeIndex(idx, length int) (int, error) {
	n := idx
	if n < 0 {
		n += length
	}
	if n < 0 || n >= length {
		return 0, &IndexError{Index: idx, Length: length}
	}
	return n, nil
}

// normalizeInsert is NormalizeIndex for positions between elements, so
// length itself is a valid target.
func normalizeInsert(idx, length int) (int, error) {
	n := idx
	if n < 0 {
		n += length
	}
	if n < 0 || n > length {
		return 0, &IndexError{Index: idx, Length: length}
	}
	return n, nil
}

// SliceLength is the number of elements visited from start towards stop
// by step. Both bounds must already be resolved.
func SliceLength(start, stop, step int) int {
	switch {
	case step > 0 && stop > start:
		return (stop-start-1)/step + 1
	case step < 0 && start > stop:
		return (start-stop-1)/(-step) + 1
	default:
		return 0
	}
}

// ResolveSlice clamps optional start and stop to length the way slicing
// does in the language: negative bounds count from the end and out of range
// bounds are clamped rather than rejected. It returns the resolved bounds
// and the result length.
func ResolveSlice(start, stop *int, step, length int) (int, int, int, error) {
	if step == 0 {
		return 0, 0, 0, ErrZeroStep
	}
	lower, upper := 0, length
	if step < 0 {
		lower, upper = -1, length-1
	}
	clamp := func(p *int, def int) int {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += length
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}
	var lo, hi int
	if step > 0 {
		lo, hi = clamp(start, lower), clamp(stop, upper)
	} else {
		lo, hi = clamp(start, upper), clamp(stop, lower)
	}
	return lo, hi, SliceLength(lo, hi, step), nil
}
