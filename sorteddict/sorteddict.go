// Package sorteddict implements SortedDict (spec §4.7): a persistent
// ordered mapping keyed by a comparable type, backed by a Left-Leaning
// Red-Black tree (internal/llrb). In-order traversal yields keys in
// ascending order under the supplied LessFunc.
package sorteddict

import (
	"fmt"
	"iter"

	"github.com/cmarschner/gopersistent/fail"
	"github.com/cmarschner/gopersistent/internal/kv"
	"github.com/cmarschner/gopersistent/internal/llrb"
)

// Dict is a persistent ordered map from K to V.
type Dict[K, V any] struct {
	root  *llrb.Node[K, V]
	count int
	less  kv.LessFunc[K]
}

// New returns the empty dict, ordered by less.
func New[K, V any](less kv.LessFunc[K]) *Dict[K, V] {
	return &Dict[K, V]{less: less}
}

// FromMapping builds a dict from a Go map by folding Assoc from empty
// (spec §8 scenario 5).
func FromMapping[K comparable, V any](m map[K]V, less kv.LessFunc[K]) *Dict[K, V] {
	d := New[K, V](less)
	for k, v := range m {
		d = d.Assoc(k, v)
	}
	return d
}

// Get returns the value bound to key, or ok == false if absent.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	return llrb.Get(d.root, key, d.less)
}

// GetOr returns the value bound to key, or def if absent.
func (d *Dict[K, V]) GetOr(key K, def V) V {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

// MustGet returns the value bound to key, or fail.ErrKeyMissing if
// absent.
func (d *Dict[K, V]) MustGet(key K) (V, error) {
	if v, ok := d.Get(key); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("sorteddict: %w", fail.ErrKeyMissing)
}

// Contains reports whether key is bound.
func (d *Dict[K, V]) Contains(key K) bool {
	_, ok := d.Get(key)
	return ok
}

// Size returns the number of entries.
func (d *Dict[K, V]) Size() int {
	return d.count
}

// First returns the entry with the minimum key, or
// fail.ErrEmptyQuery if the dict is empty (spec §7 EmptyQuery).
func (d *Dict[K, V]) First() (key K, value V, err error) {
	n := llrb.Min(d.root)
	if n == nil {
		return key, value, fmt.Errorf("sorteddict: First on empty dict: %w", fail.ErrEmptyQuery)
	}
	return n.Key, n.Value, nil
}

// Last returns the entry with the maximum key, or fail.ErrEmptyQuery
// if the dict is empty.
func (d *Dict[K, V]) Last() (key K, value V, err error) {
	n := llrb.Max(d.root)
	if n == nil {
		return key, value, fmt.Errorf("sorteddict: Last on empty dict: %w", fail.ErrEmptyQuery)
	}
	return n.Key, n.Value, nil
}

// Items returns a lazy, restartable iterator over (key, value) pairs in
// ascending key order.
func (d *Dict[K, V]) Items() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := llrb.NewIterator(d.root)
		for {
			k, v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns a lazy, restartable iterator over keys in ascending order.
func (d *Dict[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range d.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// ItemsList eagerly collects every entry, in ascending key order, into
// a slice.
func (d *Dict[K, V]) ItemsList() []kv.Entry[K, V] {
	out := make([]kv.Entry[K, V], 0, d.count)
	for k, v := range d.Items() {
		out = append(out, kv.Entry[K, V]{Key: k, Value: v})
	}
	return out
}

// Assoc returns a new dict with key bound to val (spec §4.7).
func (d *Dict[K, V]) Assoc(key K, val V) *Dict[K, V] {
	newRoot, delta := llrb.Assoc(d.root, key, val, d.less)
	return &Dict[K, V]{root: newRoot, count: d.count + delta, less: d.less}
}

// Dissoc returns a new dict with key unbound. If key is absent, the
// receiver is returned unchanged (spec §9 Open Question 3: no side
// tree is built or leaked).
func (d *Dict[K, V]) Dissoc(key K) *Dict[K, V] {
	newRoot, removed := llrb.Dissoc(d.root, key, d.less)
	if !removed {
		return d
	}
	return &Dict[K, V]{root: newRoot, count: d.count - 1, less: d.less}
}

// Subseq returns a new dict holding every entry with start <= key <
// end (inclusive start, exclusive end; spec §4.7). Either bound may be
// nil for unbounded.
func (d *Dict[K, V]) Subseq(start, end *K) *Dict[K, V] {
	result := New[K, V](d.less)
	llrb.Range(d.root, start, end, d.less, func(k K, v V) bool {
		result = result.Assoc(k, v)
		return true
	})
	return result
}

// Rsubseq returns the same entries as Subseq(start, end) but iterates
// and folds them in descending order.
func (d *Dict[K, V]) Rsubseq(start, end *K) *Dict[K, V] {
	result := New[K, V](d.less)
	llrb.RangeReverse(d.root, start, end, d.less, func(k K, v V) bool {
		result = result.Assoc(k, v)
		return true
	})
	return result
}

// Merge returns a new dict holding every entry of both d and other;
// keys present in both take other's value (right-wins).
func (d *Dict[K, V]) Merge(other *Dict[K, V]) *Dict[K, V] {
	result := d
	for k, v := range other.Items() {
		result = result.Assoc(k, v)
	}
	return result
}

// Update is an alias for Merge (spec §6).
func (d *Dict[K, V]) Update(other *Dict[K, V]) *Dict[K, V] {
	return d.Merge(other)
}

// CheckInvariants reports whether the dict's tree satisfies every LLRB
// invariant of spec §3. Exported for tests.
func (d *Dict[K, V]) CheckInvariants() bool {
	return llrb.CheckInvariants(d.root)
}
