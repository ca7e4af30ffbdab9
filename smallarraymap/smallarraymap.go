// Package smallarraymap implements SmallArrayMap (spec §4.5): a
// fixed-capacity, copy-on-write ordered entry vector offering the same
// mapping contract as HashDict, optimized for very small entry counts.
// Exceeding its capacity is a reported failure, never a silent
// promotion to HashDict — that policy decision belongs to the embedder
// (spec §1 Non-goals).
package smallarraymap

import (
	"fmt"
	"iter"

	"github.com/cmarschner/gopersistent/fail"
	"github.com/cmarschner/gopersistent/internal/config"
	"github.com/cmarschner/gopersistent/internal/kv"
)

// Map is a persistent small map with at most config.SmallArrayMapCapacity
// entries.
type Map[K, V any] struct {
	entries []kv.Entry[K, V]
	eq      kv.EqualFunc[K]
	ident   kv.IdentityFunc[V]
}

// New returns the empty map using eq as the key equality capability.
// ident is optional; pass nil to disable the assoc identity-no-op fast
// path.
func New[K, V any](eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) *Map[K, V] {
	return &Map[K, V]{eq: eq, ident: ident}
}

// FromPairs builds a map from a slice of entries, later pairs winning
// on duplicate keys. Returns an error satisfying errors.Is(err,
// fail.ErrCapacityExceeded) if pairs holds more than
// config.SmallArrayMapCapacity distinct keys.
func FromPairs[K, V any](pairs []kv.Entry[K, V], eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) (*Map[K, V], error) {
	m := New[K, V](eq, ident)
	for _, p := range pairs {
		next, err := m.Assoc(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
		m = next
	}
	return m, nil
}

func (m *Map[K, V]) indexOf(key K) int {
	for i, e := range m.entries {
		if m.eq(e.Key, key) {
			return i
		}
	}
	return -1
}

// Get returns the value bound to key, or ok == false if absent.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.entries[i].Value, true
	}
	var zero V
	return zero, false
}

// GetOr returns the value bound to key, or def if absent.
func (m *Map[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// MustGet returns the value bound to key, or fail.ErrKeyMissing if
// absent.
func (m *Map[K, V]) MustGet(key K) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("smallarraymap: %w", fail.ErrKeyMissing)
}

// Contains reports whether key is bound.
func (m *Map[K, V]) Contains(key K) bool {
	return m.indexOf(key) >= 0
}

// Size returns the number of entries.
func (m *Map[K, V]) Size() int {
	return len(m.entries)
}

// Items returns a lazy, restartable iterator over (key, value) pairs in
// insertion order.
func (m *Map[K, V]) Items() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns a lazy, restartable iterator over keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a lazy, restartable iterator over values.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.Items() {
			if !yield(v) {
				return
			}
		}
	}
}

// ItemsList eagerly collects every entry into a slice.
func (m *Map[K, V]) ItemsList() []kv.Entry[K, V] {
	out := make([]kv.Entry[K, V], len(m.entries))
	copy(out, m.entries)
	return out
}

// KeysList eagerly collects every key into a slice.
func (m *Map[K, V]) KeysList() []K {
	out := make([]K, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Key
	}
	return out
}

// ValuesList eagerly collects every value into a slice.
func (m *Map[K, V]) ValuesList() []V {
	out := make([]V, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Value
	}
	return out
}

// Assoc returns a new map with key bound to val. If key is already
// bound to val under ident (when ident is non-nil), the receiver is
// returned unchanged. Returns an error satisfying errors.Is(err,
// fail.ErrCapacityExceeded) if key is new and the map is already at
// config.SmallArrayMapCapacity.
func (m *Map[K, V]) Assoc(key K, val V) (*Map[K, V], error) {
	if i := m.indexOf(key); i >= 0 {
		if m.ident != nil && m.ident(m.entries[i].Value, val) {
			return m, nil
		}
		newEntries := make([]kv.Entry[K, V], len(m.entries))
		copy(newEntries, m.entries)
		newEntries[i] = kv.Entry[K, V]{Key: key, Value: val}
		return &Map[K, V]{entries: newEntries, eq: m.eq, ident: m.ident}, nil
	}

	if len(m.entries) >= config.SmallArrayMapCapacity {
		return nil, fmt.Errorf("smallarraymap: adding key would exceed capacity %d: %w",
			config.SmallArrayMapCapacity, fail.ErrCapacityExceeded)
	}

	newEntries := make([]kv.Entry[K, V], len(m.entries)+1)
	copy(newEntries, m.entries)
	newEntries[len(m.entries)] = kv.Entry[K, V]{Key: key, Value: val}
	return &Map[K, V]{entries: newEntries, eq: m.eq, ident: m.ident}, nil
}

// Dissoc returns a new map with key unbound. If key is absent, the
// receiver is returned unchanged.
func (m *Map[K, V]) Dissoc(key K) *Map[K, V] {
	i := m.indexOf(key)
	if i < 0 {
		return m
	}
	newEntries := make([]kv.Entry[K, V], 0, len(m.entries)-1)
	newEntries = append(newEntries, m.entries[:i]...)
	newEntries = append(newEntries, m.entries[i+1:]...)
	return &Map[K, V]{entries: newEntries, eq: m.eq, ident: m.ident}
}

// Clear returns the empty map of the same key/value capabilities.
func (m *Map[K, V]) Clear() *Map[K, V] {
	return New[K, V](m.eq, m.ident)
}

// Equal reports whether m and other hold the same set of (key, value)
// pairs, value equality given by valueEq.
func (m *Map[K, V]) Equal(other *Map[K, V], valueEq kv.EqualFunc[V]) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for _, e := range m.entries {
		ov, ok := other.Get(e.Key)
		if !ok || !valueEq(e.Value, ov) {
			return false
		}
	}
	return true
}
