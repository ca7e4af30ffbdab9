// Package config centralizes the module's build-time identity and the
// tunables that govern when each container switches internal
// representation (spec §3, §4). Grounded on funvibe-funxy's own
// internal/config/constants.go, which takes the same plain
// var/const-block approach instead of a flags/env parsing layer.
package config

// Version is the current gopersistent version.
// Set at build time via -ldflags, or edited here between releases.
var Version = "0.1.0"

// SmallArrayMapCapacity is the maximum number of entries a
// SmallArrayMap holds before callers are expected to promote to
// HashDict (spec §4.5): beyond this point linear scan stops paying off
// against a hashed trie.
const SmallArrayMapCapacity = 8

// HAMTBitsPerLevel is the number of hash bits each HAMT trie level
// consumes, fixing its fan-out at 1<<HAMTBitsPerLevel children (spec
// §4.1).
const HAMTBitsPerLevel = 5

// HAMTMaxShift is the shift at which every bit of a 32-bit hash has
// been consumed; beyond it, colliding keys are kept in a CollisionNode
// rather than splitting further (spec §4.1, §4.4).
const HAMTMaxShift = 35

// BulkBuildArenaChunkSize is the chunk size of the bump arena BuildBulk
// allocates its scratch BitmapNodes from (spec §4.3); its
// CollisionNodes come from a separate arena of 64-node chunks.
const BulkBuildArenaChunkSize = 512

// BulkBuildThreshold is the minimum entry count at which FromMapping
// switches from iterative Assoc to bump-arena bulk construction (spec
// §4.3).
const BulkBuildThreshold = 1000

// IndexedListBranchFactor is IndexedList's trie fan-out and tail-buffer
// size (spec §4.8); 32 matches one HAMT level's worth of index bits so
// the two containers share an intuition for "how wide is a node".
const IndexedListBranchFactor = 32

// IsTestMode indicates the program is running under its own test
// harness rather than as the persistctl CLI. Nothing in this module
// assigns or reads it; it stays false unless a caller sets it.
var IsTestMode = false
