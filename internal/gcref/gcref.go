// Package gcref documents the ownership discipline that replaces
// spec.md's RefNode substrate (§2, §9, §5): an atomic-refcounted
// "retained pointer" scheme for interior trie/tree nodes.
//
// This module carries no refcounting code at all. An interior node
// (*hamt.BitmapNode, *hamt.CollisionNode, *llrb.Node, the trie32 node
// type) is an ordinary Go pointer; it is reachable for exactly as long
// as something holds a reference to it, and Go's garbage collector
// reclaims it the instant it isn't. That is precisely the guarantee
// spec.md §9 asks an implementer to find: "a language primitive whose
// semantics preclude the class of bugs that arose" with manual
// acquire/release — cascade-releasing a discarded rotation result's
// children after they've already been handed to its replacement,
// refcount underflows on fix-up unwind, arena nodes whose ownership was
// never transferred before Drop.
//
// Every site in internal/llrb and internal/hamt that spec.md's original
// source flagged as a refcount hazard (rotation/flip discarding an
// intermediate node, dissoc-of-missing-key building and discarding a
// side tree, arena nodes not promoted before Drop) still exists as a
// *shape* in this code — a helper takes the subtree(s) it rebuilds and
// returns the new root, and callers never reuse a pointer after handing
// it to one — but the shape is for readability, not correctness. There
// is no Acquire, no Release, and nothing in this package to call; it
// exists so the mapping from spec.md's §2 "RefNode substrate" line item
// to this module's actual substrate (the Go runtime) is explicit rather
// than silently absent.
package gcref
