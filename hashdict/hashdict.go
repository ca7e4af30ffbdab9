// Package hashdict implements HashDict (spec §4.2): a persistent
// mapping over arbitrary hashable keys, backed by a Hash-Array-Mapped
// Trie (internal/hamt). Every derivation returns a new *Dict sharing
// unmodified structure with its receiver; the receiver itself is never
// mutated.
package hashdict

import (
	"fmt"
	"iter"

	"github.com/cmarschner/gopersistent/internal/config"
	"github.com/cmarschner/gopersistent/internal/hamt"
	"github.com/cmarschner/gopersistent/internal/kv"
	"github.com/cmarschner/gopersistent/fail"
)

// Dict is a persistent hash map from K to V.
type Dict[K, V any] struct {
	root  hamt.Node[K, V]
	count int
	hash  kv.HashFunc[K]
	eq    kv.EqualFunc[K]
	ident kv.IdentityFunc[V]
}

// New returns the empty dict using hash and eq as the key capabilities
// (spec §6). ident is optional; pass nil to disable the assoc
// identity-no-op fast path.
func New[K, V any](hash kv.HashFunc[K], eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) *Dict[K, V] {
	return &Dict[K, V]{hash: hash, eq: eq, ident: ident}
}

// FromPairs builds a dict from a slice of entries, later pairs winning
// on duplicate keys. Uses the bulk-construction path once len(pairs)
// reaches config.BulkBuildThreshold (spec §4.3), otherwise folds via
// Assoc from empty.
func FromPairs[K, V any](pairs []kv.Entry[K, V], hash kv.HashFunc[K], eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) *Dict[K, V] {
	d := New[K, V](hash, eq, ident)
	if len(pairs) < config.BulkBuildThreshold {
		for _, p := range pairs {
			d = d.Assoc(p.Key, p.Value)
		}
		return d
	}

	triples := make([]hamt.Triple[K, V], len(pairs))
	for i, p := range pairs {
		triples[i] = hamt.Triple[K, V]{Hash: hash(p.Key), Key: p.Key, Value: p.Value}
	}
	root, n := hamt.BuildBulk(triples, eq)
	return &Dict[K, V]{root: root, count: n, hash: hash, eq: eq, ident: ident}
}

// FromMapping builds a dict from a Go map (spec §8 scenario 2). Key
// order of m is unspecified, which is fine: HashDict defines no
// iteration order.
func FromMapping[K comparable, V any](m map[K]V, hash kv.HashFunc[K], eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) *Dict[K, V] {
	pairs := make([]kv.Entry[K, V], 0, len(m))
	for k, v := range m {
		pairs = append(pairs, kv.Entry[K, V]{Key: k, Value: v})
	}
	return FromPairs(pairs, hash, eq, ident)
}

// HashFunc returns the key-hashing capability the dict was constructed
// with, so a façade built on top of Dict (hashset.Set) can construct
// fresh dicts sharing it.
func (d *Dict[K, V]) HashFunc() kv.HashFunc[K] {
	return d.hash
}

// EqualFunc returns the key-equality capability the dict was
// constructed with.
func (d *Dict[K, V]) EqualFunc() kv.EqualFunc[K] {
	return d.eq
}

// Get returns the value bound to key, or ok == false if absent.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	return hamt.Get(d.root, d.hash(key), key, d.eq)
}

// GetOr returns the value bound to key, or def if absent. It never
// fails (spec §7: "Not raised by get(k, default)").
func (d *Dict[K, V]) GetOr(key K, def V) V {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

// MustGet returns the value bound to key, or fail.ErrKeyMissing if
// absent (spec §7 KeyMissing: bracket-style lookup with no default).
func (d *Dict[K, V]) MustGet(key K) (V, error) {
	if v, ok := d.Get(key); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("hashdict: %w", fail.ErrKeyMissing)
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

// Items returns a lazy, restartable iterator over (key, value) pairs in
// unspecified order (spec §1 Non-goals: "no sorted iteration of
// HashDict").
func (d *Dict[K, V]) Items() iter.Seq2[K, V] {
	return hamt.Seq(d.root)
}

// Keys returns a lazy, restartable iterator over keys.
func (d *Dict[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range d.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a lazy, restartable iterator over values.
func (d *Dict[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range d.Items() {
			if !yield(v) {
				return
			}
		}
	}
}

// ItemsList eagerly collects every entry into a slice.
func (d *Dict[K, V]) ItemsList() []kv.Entry[K, V] {
	out := make([]kv.Entry[K, V], 0, d.count)
	for k, v := range d.Items() {
		out = append(out, kv.Entry[K, V]{Key: k, Value: v})
	}
	return out
}

// KeysList eagerly collects every key into a slice.
func (d *Dict[K, V]) KeysList() []K {
	out := make([]K, 0, d.count)
	for k := range d.Keys() {
		out = append(out, k)
	}
	return out
}

// ValuesList eagerly collects every value into a slice.
func (d *Dict[K, V]) ValuesList() []V {
	out := make([]V, 0, d.count)
	for v := range d.Values() {
		out = append(out, v)
	}
	return out
}

// Assoc returns a new dict with key bound to val, sharing unmodified
// structure with the receiver (spec §4.2). If key is already bound to
// val under ident (when ident is non-nil), the receiver itself is
// returned unchanged — the identity-no-op fast path.
func (d *Dict[K, V]) Assoc(key K, val V) *Dict[K, V] {
	newRoot, delta := hamt.Assoc(d.root, d.hash(key), key, val, d.eq, d.ident)
	if delta == 0 && newRoot == d.root {
		return d
	}
	return &Dict[K, V]{root: newRoot, count: d.count + delta, hash: d.hash, eq: d.eq, ident: d.ident}
}

// Dissoc returns a new dict with key unbound. If key is absent, the
// receiver is returned unchanged.
func (d *Dict[K, V]) Dissoc(key K) *Dict[K, V] {
	newRoot, removed := hamt.Dissoc(d.root, d.hash(key), key, d.eq)
	if !removed {
		return d
	}
	return &Dict[K, V]{root: newRoot, count: d.count - 1, hash: d.hash, eq: d.eq, ident: d.ident}
}

// Merge returns a new dict holding every entry of both d and other;
// keys present in both take other's value (right-wins, spec §4.4).
func (d *Dict[K, V]) Merge(other *Dict[K, V]) *Dict[K, V] {
	newRoot, overlap := hamt.Merge(d.root, other.root, 0, d.eq)
	return &Dict[K, V]{
		root:  newRoot,
		count: d.count + other.count - overlap,
		hash:  d.hash,
		eq:    d.eq,
		ident: d.ident,
	}
}

// Update is an alias for Merge (spec §6).
func (d *Dict[K, V]) Update(other *Dict[K, V]) *Dict[K, V] {
	return d.Merge(other)
}

// Clear returns the empty dict of the same key/value capabilities.
func (d *Dict[K, V]) Clear() *Dict[K, V] {
	return New[K, V](d.hash, d.eq, d.ident)
}

// Equal reports whether d and other hold the same set of (key, value)
// pairs, value equality given by valueEq.
func (d *Dict[K, V]) Equal(other *Dict[K, V], valueEq kv.EqualFunc[V]) bool {
	if d.count != other.count {
		return false
	}
	for k, v := range d.Items() {
		ov, ok := other.Get(k)
		if !ok || !valueEq(v, ov) {
			return false
		}
	}
	return true
}
