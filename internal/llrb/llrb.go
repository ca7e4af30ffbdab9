// Package llrb implements a persistent Left-Leaning Red-Black tree: the
// engine behind SortedDict (spec §4.7). Function and helper names
// (rotateLeft, rotateRight, flipColors, moveRedLeft, moveRedRight) follow
// the naming the wider Go ecosystem uses for this exact algorithm (e.g.
// petar/GoLLRB, a dependency of the masslbs-network-schema example in
// this corpus) — only here every operation clones the nodes it touches
// instead of mutating in place, because a published SortedDict must
// never change under its caller.
//
// Ownership notes (spec §9's LLRB pitfall): a Go value removed from the
// tree — an intermediate node built by insert/delete and then discarded
// in favor of a rotation/flip's result — is simply dropped; there is no
// refcount to under-flow because nothing here is refcounted. Helpers
// still take the subtree(s) they rebuild and return the new root, and
// callers never reuse a *node handle after passing it to one, purely so
// the control flow reads the same way a refcounted implementation's
// would — not because correctness depends on it here.
package llrb

import "github.com/cmarschner/gopersistent/internal/kv"

type color bool

const (
	red   color = true
	black color = false
)

// Node is a persistent LLRB tree node.
type Node[K, V any] struct {
	Key         K
	Value       V
	Left, Right *Node[K, V]
	Color       color
}

func isRed[K, V any](n *Node[K, V]) bool {
	return n != nil && n.Color == red
}

func clone[K, V any](n *Node[K, V]) *Node[K, V] {
	c := *n
	return &c
}

// Get performs a standard BST descent using less.
func Get[K, V any](n *Node[K, V], key K, less kv.LessFunc[K]) (V, bool) {
	for n != nil {
		switch {
		case less(key, n.Key):
			n = n.Left
		case less(n.Key, key):
			n = n.Right
		default:
			return n.Value, true
		}
	}
	var zero V
	return zero, false
}

// Min descends left until there is no further left child.
func Min[K, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	for n.Left != nil {
		n = n.Left
	}
	return n
}

// Max descends right until there is no further right child.
func Max[K, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	for n.Right != nil {
		n = n.Right
	}
	return n
}

// Assoc inserts or updates key/value, returning the new root. The new
// root is always colored black on return (spec §4.7 invariant 1).
func Assoc[K, V any](root *Node[K, V], key K, val V, less kv.LessFunc[K]) (*Node[K, V], int) {
	newRoot, delta := assoc(root, key, val, less)
	newRoot.Color = black
	return newRoot, delta
}

func assoc[K, V any](n *Node[K, V], key K, val V, less kv.LessFunc[K]) (*Node[K, V], int) {
	if n == nil {
		return &Node[K, V]{Key: key, Value: val, Color: red}, 1
	}

	n = clone(n)
	var delta int
	switch {
	case less(key, n.Key):
		n.Left, delta = assoc(n.Left, key, val, less)
	case less(n.Key, key):
		n.Right, delta = assoc(n.Right, key, val, less)
	default:
		n.Value = val
		delta = 0
	}

	return fixUp(n), delta
}

// fixUp applies the three LLRB rebalancing rules in the exact order spec
// §4.7 requires: rotate-left if a lone red right link, rotate-right if two
// reds in a row leaning left, flip-colors if both children are red.
func fixUp[K, V any](n *Node[K, V]) *Node[K, V] {
	if isRed(n.Right) && !isRed(n.Left) {
		n = rotateLeft(n)
	}
	if isRed(n.Left) && isRed(n.Left.Left) {
		n = rotateRight(n)
	}
	if isRed(n.Left) && isRed(n.Right) {
		flipColors(n)
	}
	return n
}

func rotateLeft[K, V any](n *Node[K, V]) *Node[K, V] {
	x := clone(n.Right)
	n = clone(n)
	n.Right = x.Left
	x.Left = n
	x.Color = n.Color
	n.Color = red
	return x
}

func rotateRight[K, V any](n *Node[K, V]) *Node[K, V] {
	x := clone(n.Left)
	n = clone(n)
	n.Left = x.Right
	x.Right = n
	x.Color = n.Color
	n.Color = red
	return x
}

// flipColors mutates n and its two children in place. n itself is always
// a node this insert/delete pass allocated, but n.Left/n.Right may still
// be shared with a previously published tree (assoc/remove clone only
// the path they descend into, not the sibling subtree) — so flipColors
// clones both children before flipping their color, never touching a
// node reachable from an older version.
func flipColors[K, V any](n *Node[K, V]) {
	n.Left = clone(n.Left)
	n.Right = clone(n.Right)
	n.Color = !n.Color
	n.Left.Color = !n.Left.Color
	n.Right.Color = !n.Right.Color
}

// Dissoc removes key, returning the new root and whether a key was
// actually removed. When removed is false, root is returned completely
// unchanged — no side tree is built and discarded (spec §9's Open
// Question: "nothing changed" is a dedicated signal, not a leak to be
// patched over).
func Dissoc[K, V any](root *Node[K, V], key K, less kv.LessFunc[K]) (*Node[K, V], bool) {
	if root == nil {
		return nil, false
	}
	if _, ok := Get(root, key, less); !ok {
		return root, false
	}
	newRoot := remove(root, key, less)
	if newRoot != nil {
		newRoot.Color = black
	}
	return newRoot, true
}

func remove[K, V any](n *Node[K, V], key K, less kv.LessFunc[K]) *Node[K, V] {
	n = clone(n)

	if less(key, n.Key) {
		if !isRed(n.Left) && !isRed(n.Left.Left) {
			n = moveRedLeft(n)
		}
		n.Left = remove(n.Left, key, less)
	} else {
		if isRed(n.Left) {
			n = rotateRight(n)
		}
		if !less(n.Key, key) && n.Right == nil {
			return nil
		}
		if !isRed(n.Right) && !isRed(n.Right.Left) {
			n = moveRedRight(n)
		}
		if !less(n.Key, key) {
			succ := Min(n.Right)
			n.Key = succ.Key
			n.Value = succ.Value
			n.Right = removeMin(n.Right)
		} else {
			n.Right = remove(n.Right, key, less)
		}
	}

	return fixUp(n)
}

func removeMin[K, V any](n *Node[K, V]) *Node[K, V] {
	if n.Left == nil {
		return nil
	}
	n = clone(n)
	if !isRed(n.Left) && !isRed(n.Left.Left) {
		n = moveRedLeft(n)
	}
	n.Left = removeMin(n.Left)
	return fixUp(n)
}

// moveRedLeft ensures n.Left or n.Left.Left is red, pushing a red link
// down the left spine so a subsequent removal can proceed without
// violating the black-height invariant.
func moveRedLeft[K, V any](n *Node[K, V]) *Node[K, V] {
	n = clone(n)
	flipColors(n)
	if isRed(n.Right.Left) {
		n.Right = rotateRight(n.Right)
		n = rotateLeft(n)
		flipColors(n)
	}
	return n
}

// moveRedRight is moveRedLeft's mirror image, used when descending right.
func moveRedRight[K, V any](n *Node[K, V]) *Node[K, V] {
	n = clone(n)
	flipColors(n)
	if isRed(n.Left.Left) {
		n = rotateRight(n)
		flipColors(n)
	}
	return n
}

// Range calls fn for every node with start <= key < end (inclusive start,
// exclusive end) in ascending order, stopping early if fn returns false.
// A nil bound is unbounded on that side.
func Range[K, V any](n *Node[K, V], start, end *K, less kv.LessFunc[K], fn func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if start == nil || less(*start, n.Key) {
		if !Range(n.Left, start, end, less, fn) {
			return false
		}
	}
	inLower := start == nil || !less(n.Key, *start)
	inUpper := end == nil || less(n.Key, *end)
	if inLower && inUpper {
		if !fn(n.Key, n.Value) {
			return false
		}
	}
	if end == nil || less(n.Key, *end) {
		if !Range(n.Right, start, end, less, fn) {
			return false
		}
	}
	return true
}

// RangeReverse calls fn for every node with start <= key < end in
// descending order, stopping early if fn returns false.
func RangeReverse[K, V any](n *Node[K, V], start, end *K, less kv.LessFunc[K], fn func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if end == nil || less(n.Key, *end) {
		if !RangeReverse(n.Right, start, end, less, fn) {
			return false
		}
	}
	inLower := start == nil || !less(n.Key, *start)
	inUpper := end == nil || less(n.Key, *end)
	if inLower && inUpper {
		if !fn(n.Key, n.Value) {
			return false
		}
	}
	if start == nil || less(*start, n.Key) {
		if !RangeReverse(n.Left, start, end, less, fn) {
			return false
		}
	}
	return true
}

// Iterator walks a tree in ascending key order without mutating it,
// restartable from any root via NewIterator.
type Iterator[K, V any] struct {
	stack []*Node[K, V]
}

// NewIterator creates an ascending iterator over root, pushing its left
// spine onto the work stack.
func NewIterator[K, V any](root *Node[K, V]) *Iterator[K, V] {
	it := &Iterator[K, V]{}
	it.pushLeftSpine(root)
	return it
}

func (it *Iterator[K, V]) pushLeftSpine(n *Node[K, V]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.Left
	}
}

// Next returns the next (key, value) in ascending order, or ok == false
// when the iterator is exhausted.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	if len(it.stack) == 0 {
		return key, value, false
	}
	top := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeftSpine(top.Right)
	return top.Key, top.Value, true
}

// CheckInvariants walks the tree and reports whether it satisfies the
// four LLRB invariants of spec §3 (root black, no right-leaning red link,
// no two consecutive reds, equal black-height on every root-to-leaf
// path). It exists for tests, not for production use.
func CheckInvariants[K, V any](root *Node[K, V]) bool {
	if isRed(root) {
		return false
	}
	_, ok := blackHeight(root)
	return ok
}

func blackHeight[K, V any](n *Node[K, V]) (int, bool) {
	if n == nil {
		return 0, true
	}
	if isRed(n.Right) && !isRed(n.Left) {
		return 0, false
	}
	if isRed(n) && (isRed(n.Left) || isRed(n.Right)) {
		return 0, false
	}
	lh, ok := blackHeight(n.Left)
	if !ok {
		return 0, false
	}
	rh, ok := blackHeight(n.Right)
	if !ok || lh != rh {
		return 0, false
	}
	if isRed(n) {
		return lh, true
	}
	return lh + 1, true
}
