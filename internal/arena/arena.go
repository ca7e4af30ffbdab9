// Package arena implements a chunked bump-pointer allocator used for bulk
// construction of trie nodes (spec §4.3, §9 "Bump arena whose stored
// objects are never destructed").
//
// The arena never frees an individual node; only the whole region is
// reclaimed. In a language with manual memory management that means a
// single pass that either runs destructors on whatever is still resident
// or requires an explicit move-out step before the region is freed. Go's
// garbage collector already reclaims anything unreachable, so Drop here
// is bookkeeping, not deallocation: it is the boundary the type system
// uses to say "nothing should allocate through this arena anymore,
// everything that needs to survive has been promoted". Bulk callers
// build a scratch tree through Alloc, then walk it once via their own
// clone-to-heap step (internal/hamt's CloneToHeap) before calling Drop,
// so the chunk slices stop being referenced and the GC can collect them
// as a unit instead of node by node.
package arena

const defaultChunkSize = 256

// Arena allocates values of type T from growable, fixed-capacity chunks.
// A zero Arena is not usable; construct one with New.
type Arena[T any] struct {
	chunks    [][]T
	chunkSize int
	dropped   bool
}

// New creates an Arena that grows in chunks of chunkSize elements. A
// non-positive chunkSize selects a reasonable default.
func New[T any](chunkSize int) *Arena[T] {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Arena[T]{chunkSize: chunkSize}
}

// Alloc returns a pointer to a freshly zero-valued T, bump-allocated from
// the current chunk (growing the arena with a new chunk if the current
// one is full). The returned pointer is only valid until Drop.
func (a *Arena[T]) Alloc() *T {
	if a.dropped {
		panic("arena: Alloc after Drop")
	}
	if len(a.chunks) == 0 {
		a.chunks = append(a.chunks, make([]T, 0, a.chunkSize))
	}
	last := len(a.chunks) - 1
	if len(a.chunks[last]) == cap(a.chunks[last]) {
		a.chunks = append(a.chunks, make([]T, 0, a.chunkSize))
		last++
	}
	a.chunks[last] = append(a.chunks[last], *new(T))
	return &a.chunks[last][len(a.chunks[last])-1]
}

// Drop releases the arena's hold on its chunks. Any pointer returned by
// Alloc that has not been transferred to permanent storage becomes
// dangling from the arena's point of view (it may still be kept alive by
// whatever else references it, but the arena no longer vouches for it).
func (a *Arena[T]) Drop() {
	a.chunks = nil
	a.dropped = true
}
