package sequence

import "slices"

const minCapacity = 8

// buffer is the physical backing of one storage strategy. len(values) is
// the capacity; only values[:length] is live.
type buffer[T any] struct {
	values []T
	length int
}

func newBuffer[T any](values []T) *buffer[T] {
	return &buffer[T]{values: values, length: len(values)}
}

func (b *buffer[T]) capacity() int { return len(b.values) }

// ensureCapacity grows by doubling so repeated appends are amortized O(1).
func (b *buffer[T]) ensureCapacity(n int) {
	if n <= len(b.values) {
		return
	}
	newCap := max(n, 2*len(b.values), minCapacity)
	grown := make([]T, newCap)
	copy(grown, b.values[:b.length])
	b.values = grown
}

func (b *buffer[T]) minimize() {
	if len(b.values) == b.length {
		return
	}
	b.values = slices.Clone(b.values[:b.length])
}

func (b *buffer[T]) append(v T) {
	b.ensureCapacity(b.length + 1)
	b.values[b.length] = v
	b.length++
}

func (b *buffer[T]) insert(idx int, v T) {
	b.ensureCapacity(b.length + 1)
	copy(b.values[idx+1:b.length+1], b.values[idx:b.length])
	b.values[idx] = v
	b.length++
}

func (b *buffer[T]) delete(idx int) T {
	var zero T
	out := b.values[idx]
	copy(b.values[idx:b.length-1], b.values[idx+1:b.length])
	b.length--
	b.values[b.length] = zero
	return out
}

// slice copies a resolved stride into a new independent buffer.
func (b *buffer[T]) slice(start, step, n int) *buffer[T] {
	out := make([]T, n)
	if step == 1 {
		copy(out, b.values[start:start+n])
		return newBuffer(out)
	}
	for i, j := start, 0; j < n; i, j = i+step, j+1 {
		out[j] = b.values[i]
	}
	return newBuffer(out)
}

func (b *buffer[T]) clone() *buffer[T] {
	return newBuffer(slices.Clone(b.values[:b.length]))
}

func (b *buffer[T]) extend(other []T) {
	b.ensureCapacity(b.length + len(other))
	copy(b.values[b.length:], other)
	b.length += len(other)
}

func (b *buffer[T]) reverse() {
	slices.Reverse(b.values[:b.length])
}

// sortWith sorts a working copy and publishes it only when cmp succeeded,
// keeping the slack after length as it was.
func (b *buffer[T]) sortWith(cmp func(a, b T) int, failed func() bool) {
	work := make([]T, len(b.values))
	copy(work, b.values)
	slices.SortStableFunc(work[:b.length], cmp)
	if failed != nil && failed() {
		return
	}
	b.values = work
}

func (b *buffer[T]) live() []T { return b.values[:b.length] }
