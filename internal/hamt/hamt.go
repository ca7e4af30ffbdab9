// Package hamt implements the Hash Array Mapped Trie engine shared by
// HashDict and HashSet (spec §4.1–§4.4). It is the direct descendant of
// the teacher's internal/evaluator/persistent_map.go hamtNode, generalized
// from a single built-in Object key/value type to arbitrary K, V with a
// host-supplied HashFunc/EqualFunc, and extended with structural merge and
// arena-backed bulk construction.
//
// Every exported function is pure: it takes a root (or two roots) and
// returns a new root, never mutating the nodes it was given. Unmodified
// subtrees are shared between the old and new root by holding the same
// Go pointer — Go's garbage collector keeps them alive for as long as
// any version of the trie still points to them, which is the "shared
// reference discipline" spec §3 asks for.
package hamt

import (
	"iter"
	"math/bits"

	"github.com/cmarschner/gopersistent/internal/arena"
	"github.com/cmarschner/gopersistent/internal/config"
	"github.com/cmarschner/gopersistent/internal/kv"
)

const (
	bitsPerLevel = 5
	levelMask    = uint32(1)<<bitsPerLevel - 1
	// maxShift is the point at which a 32-bit hash is exhausted (7 levels
	// of 5 bits = 35 > 32): spec §4.1's "depth reaches 7" cutoff, past
	// which further collisions promote to a CollisionNode.
	maxShift = 35
)

func indexAt(hash uint32, shift uint) uint32 {
	if shift >= 32 {
		return 0
	}
	return (hash >> shift) & levelMask
}

func popcount(x uint32) int { return bits.OnesCount32(x) }

// Node is the sum type of the two HAMT interior node shapes. A nil Node
// represents the empty trie.
type Node[K, V any] interface {
	isHAMTNode()
}

// Slot is a tagged union: a populated slot in a BitmapNode holds either a
// leaf entry (Child == nil) or a child node (Child != nil), never both.
type Slot[K, V any] struct {
	Hash  uint32 // valid iff Entry != nil
	Entry *kv.Entry[K, V]
	Child Node[K, V]
}

// BitmapNode is a HAMT interior node: bit b of Bitmap is set iff the
// 5-bit index b at this node's depth is occupied, and Slots is the dense,
// popcount-compressed array of occupied slots in ascending index order.
type BitmapNode[K, V any] struct {
	Bitmap uint32
	Slots  []Slot[K, V]
}

func (*BitmapNode[K, V]) isHAMTNode() {}

// CollisionNode holds entries that share a common 32-bit hash (because
// the trie ran out of hash bits, or because of a genuine hash collision).
// All keys in Entries are pairwise distinct.
type CollisionNode[K, V any] struct {
	Hash    uint32
	Entries []kv.Entry[K, V]
}

func (*CollisionNode[K, V]) isHAMTNode() {}

// Get looks up key (with precomputed hash) in the trie rooted at n.
func Get[K, V any](n Node[K, V], hash uint32, key K, eq kv.EqualFunc[K]) (V, bool) {
	var zero V
	shift := uint(0)
	for {
		switch t := n.(type) {
		case nil:
			return zero, false
		case *BitmapNode[K, V]:
			idx := indexAt(hash, shift)
			bit := uint32(1) << idx
			if t.Bitmap&bit == 0 {
				return zero, false
			}
			pos := popcount(t.Bitmap & (bit - 1))
			s := t.Slots[pos]
			if s.Child != nil {
				n = s.Child
				shift += bitsPerLevel
				continue
			}
			if eq(s.Entry.Key, key) {
				return s.Entry.Value, true
			}
			return zero, false
		case *CollisionNode[K, V]:
			for i := range t.Entries {
				if eq(t.Entries[i].Key, key) {
					return t.Entries[i].Value, true
				}
			}
			return zero, false
		default:
			return zero, false
		}
	}
}

// Assoc returns a trie with key bound to val, sharing every subtree not on
// the path to key. delta is 1 if key was previously absent, 0 otherwise.
// When ident reports the new value is identical to the one already bound
// to key, the input n is returned unchanged (no allocation) per the
// identity-no-op fast path of spec §4.2.
func Assoc[K, V any](n Node[K, V], hash uint32, key K, val V, eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) (Node[K, V], int) {
	return assocAt(n, hash, 0, key, val, eq, ident)
}

func assocAt[K, V any](n Node[K, V], hash uint32, shift uint, key K, val V, eq kv.EqualFunc[K], ident kv.IdentityFunc[V]) (Node[K, V], int) {
	if n == nil {
		if shift >= maxShift {
			return &CollisionNode[K, V]{Hash: hash, Entries: []kv.Entry[K, V]{{Key: key, Value: val}}}, 1
		}
		idx := indexAt(hash, shift)
		return &BitmapNode[K, V]{
			Bitmap: uint32(1) << idx,
			Slots:  []Slot[K, V]{{Hash: hash, Entry: &kv.Entry[K, V]{Key: key, Value: val}}},
		}, 1
	}

	switch t := n.(type) {
	case *BitmapNode[K, V]:
		idx := indexAt(hash, shift)
		bit := uint32(1) << idx

		if t.Bitmap&bit == 0 {
			pos := popcount(t.Bitmap & (bit - 1))
			newSlots := make([]Slot[K, V], len(t.Slots)+1)
			copy(newSlots, t.Slots[:pos])
			newSlots[pos] = Slot[K, V]{Hash: hash, Entry: &kv.Entry[K, V]{Key: key, Value: val}}
			copy(newSlots[pos+1:], t.Slots[pos:])
			return &BitmapNode[K, V]{Bitmap: t.Bitmap | bit, Slots: newSlots}, 1
		}

		pos := popcount(t.Bitmap & (bit - 1))
		existing := t.Slots[pos]

		if existing.Child != nil {
			newChild, delta := assocAt(existing.Child, hash, shift+bitsPerLevel, key, val, eq, ident)
			if delta == 0 && newChild == existing.Child {
				return t, 0
			}
			newSlots := make([]Slot[K, V], len(t.Slots))
			copy(newSlots, t.Slots)
			newSlots[pos] = Slot[K, V]{Child: newChild}
			return &BitmapNode[K, V]{Bitmap: t.Bitmap, Slots: newSlots}, delta
		}

		if eq(existing.Entry.Key, key) {
			if ident != nil && ident(existing.Entry.Value, val) {
				return t, 0
			}
			newSlots := make([]Slot[K, V], len(t.Slots))
			copy(newSlots, t.Slots)
			newSlots[pos] = Slot[K, V]{Hash: hash, Entry: &kv.Entry[K, V]{Key: key, Value: val}}
			return &BitmapNode[K, V]{Bitmap: t.Bitmap, Slots: newSlots}, 0
		}

		child := createNode(shift+bitsPerLevel, existing.Entry.Key, existing.Entry.Value, existing.Hash, key, val, hash)
		newSlots := make([]Slot[K, V], len(t.Slots))
		copy(newSlots, t.Slots)
		newSlots[pos] = Slot[K, V]{Child: child}
		return &BitmapNode[K, V]{Bitmap: t.Bitmap, Slots: newSlots}, 1

	case *CollisionNode[K, V]:
		// A node only reaches CollisionNode once every index level has
		// been exhausted (shift >= maxShift), at which point every key
		// sharing this bucket shares the full 32-bit hash by construction
		// — hash == t.Hash always holds here.
		for i := range t.Entries {
			if eq(t.Entries[i].Key, key) {
				if ident != nil && ident(t.Entries[i].Value, val) {
					return t, 0
				}
				newEntries := make([]kv.Entry[K, V], len(t.Entries))
				copy(newEntries, t.Entries)
				newEntries[i] = kv.Entry[K, V]{Key: key, Value: val}
				return &CollisionNode[K, V]{Hash: t.Hash, Entries: newEntries}, 0
			}
		}
		newEntries := make([]kv.Entry[K, V], len(t.Entries)+1)
		copy(newEntries, t.Entries)
		newEntries[len(t.Entries)] = kv.Entry[K, V]{Key: key, Value: val}
		return &CollisionNode[K, V]{Hash: t.Hash, Entries: newEntries}, 1
	}

	return n, 0
}

// createNode builds the interior node that replaces a leaf slot when a
// second, distinct key maps to it (spec §4.2 createNode).
func createNode[K, V any](shift uint, key1 K, val1 V, h1 uint32, key2 K, val2 V, h2 uint32) Node[K, V] {
	if shift >= maxShift {
		return &CollisionNode[K, V]{
			Hash:    h1,
			Entries: []kv.Entry[K, V]{{Key: key1, Value: val1}, {Key: key2, Value: val2}},
		}
	}
	i1 := indexAt(h1, shift)
	i2 := indexAt(h2, shift)
	if i1 == i2 {
		child := createNode[K, V](shift+bitsPerLevel, key1, val1, h1, key2, val2, h2)
		return &BitmapNode[K, V]{Bitmap: uint32(1) << i1, Slots: []Slot[K, V]{{Child: child}}}
	}
	s1 := Slot[K, V]{Hash: h1, Entry: &kv.Entry[K, V]{Key: key1, Value: val1}}
	s2 := Slot[K, V]{Hash: h2, Entry: &kv.Entry[K, V]{Key: key2, Value: val2}}
	bitmap := (uint32(1) << i1) | (uint32(1) << i2)
	if i1 < i2 {
		return &BitmapNode[K, V]{Bitmap: bitmap, Slots: []Slot[K, V]{s1, s2}}
	}
	return &BitmapNode[K, V]{Bitmap: bitmap, Slots: []Slot[K, V]{s2, s1}}
}

// Dissoc returns a trie with key removed, or n itself (unchanged,
// un-reallocated) if key was absent — the dedicated "nothing changed"
// signal spec §9's Open Question asks for, here expressed as removed ==
// false rather than via pointer comparison of a freshly built clone.
func Dissoc[K, V any](n Node[K, V], hash uint32, key K, eq kv.EqualFunc[K]) (Node[K, V], bool) {
	return dissocAt(n, hash, 0, key, eq)
}

func dissocAt[K, V any](n Node[K, V], hash uint32, shift uint, key K, eq kv.EqualFunc[K]) (Node[K, V], bool) {
	switch t := n.(type) {
	case nil:
		return nil, false

	case *BitmapNode[K, V]:
		idx := indexAt(hash, shift)
		bit := uint32(1) << idx
		if t.Bitmap&bit == 0 {
			return t, false
		}
		pos := popcount(t.Bitmap & (bit - 1))
		s := t.Slots[pos]

		if s.Child == nil {
			if !eq(s.Entry.Key, key) {
				return t, false
			}
			if len(t.Slots) == 1 {
				return nil, true
			}
			return eraseSlot(t, pos, bit), true
		}

		newChild, removed := dissocAt(s.Child, hash, shift+bitsPerLevel, key, eq)
		if !removed {
			return t, false
		}
		if newChild == nil {
			if len(t.Slots) == 1 {
				return nil, true
			}
			return eraseSlot(t, pos, bit), true
		}
		newSlots := make([]Slot[K, V], len(t.Slots))
		copy(newSlots, t.Slots)
		newSlots[pos] = Slot[K, V]{Child: newChild}
		return &BitmapNode[K, V]{Bitmap: t.Bitmap, Slots: newSlots}, true

	case *CollisionNode[K, V]:
		for i := range t.Entries {
			if !eq(t.Entries[i].Key, key) {
				continue
			}
			if len(t.Entries) <= 1 {
				return nil, true
			}
			// A single remaining entry is kept as a 1-entry CollisionNode
			// rather than demoted to an inline leaf: spec §9's Open
			// Question resolves this way (see SPEC_FULL.md §9.2). get and
			// iteration both already handle it.
			newEntries := make([]kv.Entry[K, V], len(t.Entries)-1)
			copy(newEntries, t.Entries[:i])
			copy(newEntries[i:], t.Entries[i+1:])
			return &CollisionNode[K, V]{Hash: t.Hash, Entries: newEntries}, true
		}
		return t, false
	}
	return n, false
}

func eraseSlot[K, V any](t *BitmapNode[K, V], pos int, bit uint32) *BitmapNode[K, V] {
	newSlots := make([]Slot[K, V], len(t.Slots)-1)
	copy(newSlots, t.Slots[:pos])
	copy(newSlots[pos:], t.Slots[pos+1:])
	return &BitmapNode[K, V]{Bitmap: t.Bitmap &^ bit, Slots: newSlots}
}

// Iterate visits every (hash, entry) reachable from n in trie order,
// stopping early if fn returns false.
func Iterate[K, V any](n Node[K, V], fn func(hash uint32, e kv.Entry[K, V]) bool) bool {
	switch t := n.(type) {
	case nil:
		return true
	case *BitmapNode[K, V]:
		for _, s := range t.Slots {
			if s.Child != nil {
				if !Iterate(s.Child, fn) {
					return false
				}
				continue
			}
			if !fn(s.Hash, *s.Entry) {
				return false
			}
		}
		return true
	case *CollisionNode[K, V]:
		for _, e := range t.Entries {
			if !fn(t.Hash, e) {
				return false
			}
		}
		return true
	}
	return true
}

// Seq returns a lazy, restartable sequence over every (key, value) pair
// reachable from n. Each call to the returned iter.Seq2 walks the trie
// afresh — iteration never mutates or pins a shared tree in place (spec
// §9's "iterators that hold borrowed references" design note).
func Seq[K, V any](n Node[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		Iterate(n, func(_ uint32, e kv.Entry[K, V]) bool {
			return yield(e.Key, e.Value)
		})
	}
}

func countEntries[K, V any](n Node[K, V]) int {
	count := 0
	Iterate(n, func(uint32, kv.Entry[K, V]) bool {
		count++
		return true
	})
	return count
}

// Merge deep-merges two tries with right-wins semantics on key conflicts
// (spec §4.4). It returns the merged root and the overlap — the number of
// keys present in both left and right — from which an exact merged count
// is derived as leftSize+rightSize-overlap (spec §9's Open Question:
// running-delta, not recount-via-iteration).
func Merge[K, V any](left, right Node[K, V], shift uint, eq kv.EqualFunc[K]) (Node[K, V], int) {
	if left == nil {
		return right, 0
	}
	if right == nil {
		return left, 0
	}

	lb, lIsBitmap := left.(*BitmapNode[K, V])
	rb, rIsBitmap := right.(*BitmapNode[K, V])
	if lIsBitmap && rIsBitmap {
		return mergeBitmapNodes(lb, rb, shift, eq)
	}

	lc, lIsColl := left.(*CollisionNode[K, V])
	rc, rIsColl := right.(*CollisionNode[K, V])
	if lIsColl && rIsColl && lc.Hash == rc.Hash {
		return mergeCollisionNodes(lc, rc, eq)
	}

	return mergeFallback(left, right, eq)
}

func mergeBitmapNodes[K, V any](l, r *BitmapNode[K, V], shift uint, eq kv.EqualFunc[K]) (Node[K, V], int) {
	combined := l.Bitmap | r.Bitmap
	slots := make([]Slot[K, V], 0, popcount(combined))
	overlap := 0

	for idx := uint32(0); idx < 32; idx++ {
		bit := uint32(1) << idx
		if combined&bit == 0 {
			continue
		}
		inLeft := l.Bitmap&bit != 0
		inRight := r.Bitmap&bit != 0

		switch {
		case inLeft && inRight:
			lp := popcount(l.Bitmap & (bit - 1))
			rp := popcount(r.Bitmap & (bit - 1))
			merged, ov := mergeSlot(l.Slots[lp], r.Slots[rp], shift+bitsPerLevel, eq)
			overlap += ov
			slots = append(slots, merged)
		case inLeft:
			lp := popcount(l.Bitmap & (bit - 1))
			slots = append(slots, l.Slots[lp])
		default:
			rp := popcount(r.Bitmap & (bit - 1))
			slots = append(slots, r.Slots[rp])
		}
	}

	return &BitmapNode[K, V]{Bitmap: combined, Slots: slots}, overlap
}

func mergeSlot[K, V any](l, r Slot[K, V], shift uint, eq kv.EqualFunc[K]) (Slot[K, V], int) {
	switch {
	case l.Child == nil && r.Child == nil:
		if eq(l.Entry.Key, r.Entry.Key) {
			return Slot[K, V]{Hash: r.Hash, Entry: r.Entry}, 1
		}
		child := createNode(shift, l.Entry.Key, l.Entry.Value, l.Hash, r.Entry.Key, r.Entry.Value, r.Hash)
		return Slot[K, V]{Child: child}, 0

	case l.Child != nil && r.Child != nil:
		merged, ov := Merge[K, V](l.Child, r.Child, shift, eq)
		return Slot[K, V]{Child: merged}, ov

	case l.Child != nil:
		// Node (left) + Entry (right): right's single entry wins on a key
		// clash with the node.
		merged, delta := assocAt(l.Child, r.Hash, shift, r.Entry.Key, r.Entry.Value, eq, nil)
		return Slot[K, V]{Child: merged}, 1 - delta

	default:
		// Entry (left) + Node (right): right's node keeps its own value
		// for the key if it already has one; left's entry only fills a
		// gap.
		merged, delta := assocAt(r.Child, l.Hash, shift, l.Entry.Key, l.Entry.Value, eq, nil)
		if delta == 0 {
			return Slot[K, V]{Child: r.Child}, 1
		}
		return Slot[K, V]{Child: merged}, 0
	}
}

func mergeCollisionNodes[K, V any](l, r *CollisionNode[K, V], eq kv.EqualFunc[K]) (Node[K, V], int) {
	entries := make([]kv.Entry[K, V], len(l.Entries), len(l.Entries)+len(r.Entries))
	copy(entries, l.Entries)
	overlap := 0

	for _, re := range r.Entries {
		found := false
		for i := range entries {
			if eq(entries[i].Key, re.Key) {
				entries[i] = re
				found = true
				overlap++
				break
			}
		}
		if !found {
			entries = append(entries, re)
		}
	}

	return &CollisionNode[K, V]{Hash: l.Hash, Entries: entries}, overlap
}

// mergeFallback handles a BitmapNode meeting a CollisionNode (or two
// CollisionNodes with different hashes, which a well-formed trie never
// actually produces at the same depth but which this handles defensively
// anyway): iterate the smaller side and assoc it into the larger, seeding
// the accumulator so right always wins (spec §4.4).
func mergeFallback[K, V any](left, right Node[K, V], eq kv.EqualFunc[K]) (Node[K, V], int) {
	leftCount := countEntries(left)
	rightCount := countEntries(right)
	overlap := 0

	if leftCount <= rightCount {
		result := right
		Iterate(left, func(hash uint32, e kv.Entry[K, V]) bool {
			if _, ok := Get(right, hash, e.Key, eq); ok {
				overlap++
				return true
			}
			result, _ = assocAt(result, hash, 0, e.Key, e.Value, eq, nil)
			return true
		})
		return result, overlap
	}

	result := left
	Iterate(right, func(hash uint32, e kv.Entry[K, V]) bool {
		if _, ok := Get(left, hash, e.Key, eq); ok {
			overlap++
		}
		result, _ = assocAt(result, hash, 0, e.Key, e.Value, eq, nil)
		return true
	})
	return result, overlap
}

// Triple is a flattened (hash, key, value) reading used as the bulk
// construction input (spec §4.3).
type Triple[K, V any] struct {
	Hash  uint32
	Key   K
	Value V
}

// BuildBulk builds a trie from a flat slice of triples via a bump arena,
// then promotes the arena-resident tree to permanent heap nodes before
// dropping the arena (spec §4.3). Duplicate keys resolve last-wins, same
// as folding the triples through Assoc in order would.
func BuildBulk[K, V any](triples []Triple[K, V], eq kv.EqualFunc[K]) (Node[K, V], int) {
	deduped := dedupeTriples(triples, eq)
	if len(deduped) == 0 {
		return nil, 0
	}

	ar := arena.New[BitmapNode[K, V]](config.BulkBuildArenaChunkSize)
	car := arena.New[CollisionNode[K, V]](64)

	root := buildBitmapNode(deduped, 0, ar, car)
	heapRoot := CloneToHeap[K, V](root)

	ar.Drop()
	car.Drop()

	return heapRoot, len(deduped)
}

func dedupeTriples[K, V any](triples []Triple[K, V], eq kv.EqualFunc[K]) []Triple[K, V] {
	byHash := make(map[uint32][]int, len(triples))
	result := make([]Triple[K, V], 0, len(triples))
	for _, t := range triples {
		dupIdx := -1
		for _, ri := range byHash[t.Hash] {
			if eq(result[ri].Key, t.Key) {
				dupIdx = ri
				break
			}
		}
		if dupIdx >= 0 {
			result[dupIdx] = t
			continue
		}
		byHash[t.Hash] = append(byHash[t.Hash], len(result))
		result = append(result, t)
	}
	return result
}

func buildBitmapNode[K, V any](items []Triple[K, V], shift uint, ar *arena.Arena[BitmapNode[K, V]], car *arena.Arena[CollisionNode[K, V]]) *BitmapNode[K, V] {
	var buckets [32][]Triple[K, V]
	var bitmap uint32
	for _, t := range items {
		idx := indexAt(t.Hash, shift)
		if buckets[idx] == nil {
			bitmap |= uint32(1) << idx
		}
		buckets[idx] = append(buckets[idx], t)
	}

	node := ar.Alloc()
	node.Bitmap = bitmap
	node.Slots = make([]Slot[K, V], 0, popcount(bitmap))
	for idx := uint32(0); idx < 32; idx++ {
		if bitmap&(uint32(1)<<idx) == 0 {
			continue
		}
		node.Slots = append(node.Slots, buildSlot(buckets[idx], shift+bitsPerLevel, ar, car))
	}
	return node
}

func buildSlot[K, V any](items []Triple[K, V], shift uint, ar *arena.Arena[BitmapNode[K, V]], car *arena.Arena[CollisionNode[K, V]]) Slot[K, V] {
	if len(items) == 1 {
		t := items[0]
		return Slot[K, V]{Hash: t.Hash, Entry: &kv.Entry[K, V]{Key: t.Key, Value: t.Value}}
	}

	if shift >= maxShift {
		node := car.Alloc()
		node.Hash = items[0].Hash
		node.Entries = make([]kv.Entry[K, V], len(items))
		for i, t := range items {
			node.Entries[i] = kv.Entry[K, V]{Key: t.Key, Value: t.Value}
		}
		return Slot[K, V]{Child: node}
	}

	return Slot[K, V]{Child: buildBitmapNode(items, shift, ar, car)}
}

// CloneToHeap walks an arena-resident tree and allocates equivalent nodes
// on the ordinary Go heap, severing every pointer into the arena's
// backing chunks so the arena can be dropped.
func CloneToHeap[K, V any](n Node[K, V]) Node[K, V] {
	switch t := n.(type) {
	case nil:
		return nil
	case *BitmapNode[K, V]:
		slots := make([]Slot[K, V], len(t.Slots))
		for i, s := range t.Slots {
			if s.Child != nil {
				slots[i] = Slot[K, V]{Child: CloneToHeap[K, V](s.Child)}
				continue
			}
			entry := *s.Entry
			slots[i] = Slot[K, V]{Hash: s.Hash, Entry: &entry}
		}
		return &BitmapNode[K, V]{Bitmap: t.Bitmap, Slots: slots}
	case *CollisionNode[K, V]:
		entries := make([]kv.Entry[K, V], len(t.Entries))
		copy(entries, t.Entries)
		return &CollisionNode[K, V]{Hash: t.Hash, Entries: entries}
	}
	return n
}

// Count counts the number of entries reachable from n; exported for
// façades that want an O(N) sanity recount (e.g. after UnmarshalCBOR-style
// reconstruction elsewhere in the corpus — unused by this module's
// façades, which maintain an exact count incrementally, but kept because
// Merge's fallback path and tests both need it).
func Count[K, V any](n Node[K, V]) int { return countEntries(n) }
