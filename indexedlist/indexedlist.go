// Package indexedlist implements IndexedList (spec §4.8): a persistent
// indexed sequence offering O(log₃₂ N) random access and amortized
// O(1) append, backed by a 32-way trie with a tail buffer
// (internal/trie32).
package indexedlist

import (
	"fmt"
	"iter"

	"github.com/cmarschner/gopersistent/fail"
	"github.com/cmarschner/gopersistent/internal/trie32"
)

// List is a persistent sequence of T.
type List[T any] struct {
	t *trie32.Trie[T]
}

// New returns the empty list.
func New[T any]() *List[T] {
	return &List[T]{t: trie32.Empty[T]()}
}

// FromIterable builds a list from every element elems yields, in
// order.
func FromIterable[T any](elems iter.Seq[T]) *List[T] {
	l := New[T]()
	for v := range elems {
		l = l.Conj(v)
	}
	return l
}

// Of builds a list from a fixed sequence of elements (spec §6
// "variadic" constructor).
func Of[T any](elems ...T) *List[T] {
	l := New[T]()
	for _, v := range elems {
		l = l.Conj(v)
	}
	return l
}

func resolveIndex(i, count int) int {
	if i < 0 {
		return i + count
	}
	return i
}

// Nth returns the element at index i (negative indices resolve from
// the end), or fail.ErrIndexOutOfRange if out of bounds.
func (l *List[T]) Nth(i int) (T, error) {
	ri := resolveIndex(i, l.t.Count())
	v, ok := l.t.Nth(ri)
	if !ok {
		var zero T
		return zero, fmt.Errorf("indexedlist: index %d out of range [0, %d): %w", i, l.t.Count(), fail.ErrIndexOutOfRange)
	}
	return v, nil
}

// Get returns the element at index i, or def if i is out of range.
func (l *List[T]) Get(i int, def T) T {
	v, err := l.Nth(i)
	if err != nil {
		return def
	}
	return v
}

// Size returns the number of elements.
func (l *List[T]) Size() int {
	return l.t.Count()
}

// Items returns a lazy, restartable iterator over (index, value) pairs
// in order.
func (l *List[T]) Items() iter.Seq2[int, T] {
	return trie32.Iterate(l.t)
}

// List eagerly collects every element into a slice.
func (l *List[T]) List() []T {
	out := make([]T, 0, l.t.Count())
	for _, v := range l.Items() {
		out = append(out, v)
	}
	return out
}

// Conj (append) returns a new list with val as its last element.
func (l *List[T]) Conj(val T) *List[T] {
	return &List[T]{t: trie32.Conj(l.t, val)}
}

// Assoc returns a new list with the element at index i replaced by
// val, or fail.ErrIndexOutOfRange if i is out of bounds.
func (l *List[T]) Assoc(i int, val T) (*List[T], error) {
	ri := resolveIndex(i, l.t.Count())
	if ri < 0 || ri >= l.t.Count() {
		return nil, fmt.Errorf("indexedlist: index %d out of range [0, %d): %w", i, l.t.Count(), fail.ErrIndexOutOfRange)
	}
	return &List[T]{t: trie32.AssocN(l.t, ri, val)}, nil
}

// Pop returns a new list with the last element removed, or
// fail.ErrEmptyQuery if the list is empty.
func (l *List[T]) Pop() (*List[T], error) {
	if l.t.Count() == 0 {
		return nil, fmt.Errorf("indexedlist: Pop on empty list: %w", fail.ErrEmptyQuery)
	}
	return &List[T]{t: trie32.Pop(l.t)}, nil
}

// Slice returns a new list holding l[start:stop) (step 1 only;
// negative indices resolve from the end, spec §4.8).
func (l *List[T]) Slice(start, stop int) *List[T] {
	count := l.t.Count()
	rs, re := resolveIndex(start, count), resolveIndex(stop, count)
	if rs < 0 {
		rs = 0
	}
	if re > count {
		re = count
	}
	if rs >= re {
		return New[T]()
	}
	return &List[T]{t: trie32.Slice(l.t, rs, re)}
}
