// Package keyhash provides a default kv.HashFunc for comparable key
// types, for callers of hashdict/hashset who don't want to supply their
// own hash. It is built on github.com/dolthub/maphash, which exposes
// Go's runtime string/map hash (with a seed per hasher) through a
// generic, allocation-free API — the same library TomTonic-multimap in
// this corpus depends on for its own key hashing.
package keyhash

import (
	"github.com/dolthub/maphash"

	"github.com/cmarschner/gopersistent/internal/kv"
)

// Default returns a kv.HashFunc for any comparable type, seeded once at
// call time. Two Default() hashers in the same process produce
// different seeds and are not interchangeable — use a single instance
// throughout the lifetime of a given HashDict/HashSet's key space.
func Default[K comparable]() kv.HashFunc[K] {
	h := maphash.NewHasher[K]()
	return func(k K) uint32 {
		return uint32(h.Hash(k))
	}
}
