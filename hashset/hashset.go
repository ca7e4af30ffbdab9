// Package hashset implements HashSet (spec §4.6): a thin façade over
// HashDict storing a single sentinel value for every element. Binary
// set operations and predicates are expressed in terms of iteration
// plus the underlying dict's Assoc/Dissoc/Contains, exactly as spec.md
// describes.
package hashset

import (
	"iter"

	"github.com/cmarschner/gopersistent/hashdict"
	"github.com/cmarschner/gopersistent/internal/kv"
)

// sentinel is the single value every element maps to in the underlying
// HashDict (spec §4.6, §3 "HashSet: a HashDict whose every value is the
// same distinguished unit sentinel").
type sentinel struct{}

// Set is a persistent set of K.
type Set[K any] struct {
	dict *hashdict.Dict[K, sentinel]
}

// New returns the empty set using hash and eq as the key capabilities.
func New[K any](hash kv.HashFunc[K], eq kv.EqualFunc[K]) *Set[K] {
	// Every value is the one sentinel, so it is always identical to the
	// value already bound: Conj of a member is a no-op.
	same := func(sentinel, sentinel) bool { return true }
	return &Set[K]{dict: hashdict.New[K, sentinel](hash, eq, same)}
}

// FromIterable builds a set from every element elems yields.
func FromIterable[K any](elems iter.Seq[K], hash kv.HashFunc[K], eq kv.EqualFunc[K]) *Set[K] {
	s := New[K](hash, eq)
	for e := range elems {
		s = s.Conj(e)
	}
	return s
}

// Of builds a set from a fixed list of elements (spec §6 "variadic"
// constructor).
func Of[K any](hash kv.HashFunc[K], eq kv.EqualFunc[K], elems ...K) *Set[K] {
	s := New[K](hash, eq)
	for _, e := range elems {
		s = s.Conj(e)
	}
	return s
}

// Contains reports whether elem is a member.
func (s *Set[K]) Contains(elem K) bool {
	return s.dict.Contains(elem)
}

// Size returns the number of elements.
func (s *Set[K]) Size() int {
	return s.dict.Size()
}

// Elements returns a lazy, restartable iterator over members in
// unspecified order.
func (s *Set[K]) Elements() iter.Seq[K] {
	return s.dict.Keys()
}

// List eagerly collects every element into a slice.
func (s *Set[K]) List() []K {
	return s.dict.KeysList()
}

// Conj (add) returns a new set with elem present.
func (s *Set[K]) Conj(elem K) *Set[K] {
	newDict := s.dict.Assoc(elem, sentinel{})
	if newDict == s.dict {
		return s
	}
	return &Set[K]{dict: newDict}
}

// Disj (remove) returns a new set with elem absent.
func (s *Set[K]) Disj(elem K) *Set[K] {
	newDict := s.dict.Dissoc(elem)
	if newDict == s.dict {
		return s
	}
	return &Set[K]{dict: newDict}
}

// Union returns a new set containing every element of s and other. It
// iterates the smaller set and assocs it into the larger (spec §4.6).
func (s *Set[K]) Union(other *Set[K]) *Set[K] {
	small, large := s, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	result := large
	for e := range small.Elements() {
		result = result.Conj(e)
	}
	return result
}

// Intersection returns a new set containing only elements present in
// both s and other: iterates the smaller, filters by containment in
// the larger.
func (s *Set[K]) Intersection(other *Set[K]) *Set[K] {
	small, large := s, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	result := New[K](small.dict.HashFunc(), small.dict.EqualFunc())
	for e := range small.Elements() {
		if large.Contains(e) {
			result = result.Conj(e)
		}
	}
	return result
}

// Difference returns a new set containing elements of s not present in
// other.
func (s *Set[K]) Difference(other *Set[K]) *Set[K] {
	result := New[K](s.dict.HashFunc(), s.dict.EqualFunc())
	for e := range s.Elements() {
		if !other.Contains(e) {
			result = result.Conj(e)
		}
	}
	return result
}

// SymmetricDifference returns union(difference(s,other), difference(other,s)).
func (s *Set[K]) SymmetricDifference(other *Set[K]) *Set[K] {
	return s.Difference(other).Union(other.Difference(s))
}

// Update returns a new set with every element elems yields added (spec
// §6's iterable-accepting derivation).
func (s *Set[K]) Update(elems iter.Seq[K]) *Set[K] {
	result := s
	for e := range elems {
		result = result.Conj(e)
	}
	return result
}

// IsSubset reports whether every element of s is in other.
func (s *Set[K]) IsSubset(other *Set[K]) bool {
	for e := range s.Elements() {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// IsSuperset reports whether every element of other is in s.
func (s *Set[K]) IsSuperset(other *Set[K]) bool {
	return other.IsSubset(s)
}

// IsDisjoint reports whether s and other share no elements.
func (s *Set[K]) IsDisjoint(other *Set[K]) bool {
	small, large := s, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	for e := range small.Elements() {
		if large.Contains(e) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other hold the same element set.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if s.Size() != other.Size() {
		return false
	}
	return s.IsSubset(other)
}
