package hashset

import (
	"slices"
	"testing"

	"github.com/cmarschner/gopersistent/internal/keyhash"
)

func intEq(a, b int) bool { return a == b }

func newIntSet(elems ...int) *Set[int] {
	return Of[int](keyhash.Default[int](), intEq, elems...)
}

func TestConjDisjContains(t *testing.T) {
	s := New[int](keyhash.Default[int](), intEq)
	s2 := s.Conj(1).Conj(2).Conj(1)
	if s2.Size() != 2 {
		t.Fatalf("Size = %d, want 2", s2.Size())
	}
	if !s2.Contains(1) || !s2.Contains(2) {
		t.Fatalf("Contains missing expected members")
	}
	s3 := s2.Disj(1)
	if s3.Size() != 1 || s3.Contains(1) {
		t.Fatalf("Disj(1) did not remove member")
	}
	if s.Size() != 0 {
		t.Fatalf("original set mutated: Size = %d, want 0", s.Size())
	}
}

func TestConjNoOpReturnsReceiver(t *testing.T) {
	s := newIntSet(1, 2)
	s2 := s.Conj(1)
	if s2 != s {
		t.Fatalf("Conj of existing member must return the receiver unchanged")
	}
}

func TestDisjNoOpReturnsReceiver(t *testing.T) {
	s := newIntSet(1, 2)
	s2 := s.Disj(999)
	if s2 != s {
		t.Fatalf("Disj of absent member must return the receiver unchanged")
	}
}

func TestFromIterableAndList(t *testing.T) {
	src := slices.Values([]int{1, 2, 2, 3})
	s := FromIterable[int](src, keyhash.Default[int](), intEq)
	if s.Size() != 3 {
		t.Fatalf("Size = %d, want 3", s.Size())
	}
	list := s.List()
	slices.Sort(list)
	if !slices.Equal(list, []int{1, 2, 3}) {
		t.Fatalf("List = %v, want [1 2 3]", list)
	}
}

func TestUnion(t *testing.T) {
	a := newIntSet(1, 2, 3)
	b := newIntSet(3, 4, 5)
	u := a.Union(b)
	if u.Size() != 5 {
		t.Fatalf("Union Size = %d, want 5", u.Size())
	}
	for _, k := range []int{1, 2, 3, 4, 5} {
		if !u.Contains(k) {
			t.Fatalf("Union missing %d", k)
		}
	}
}

func TestIntersection(t *testing.T) {
	a := newIntSet(1, 2, 3, 4)
	b := newIntSet(3, 4, 5)
	i := a.Intersection(b)
	if i.Size() != 2 {
		t.Fatalf("Intersection Size = %d, want 2", i.Size())
	}
	if !i.Contains(3) || !i.Contains(4) {
		t.Fatalf("Intersection missing expected elements")
	}
	if i.Contains(1) || i.Contains(5) {
		t.Fatalf("Intersection contains unexpected element")
	}
}

func TestDifference(t *testing.T) {
	a := newIntSet(1, 2, 3, 4)
	b := newIntSet(3, 4, 5)
	d := a.Difference(b)
	if d.Size() != 2 {
		t.Fatalf("Difference Size = %d, want 2", d.Size())
	}
	if !d.Contains(1) || !d.Contains(2) {
		t.Fatalf("Difference missing expected elements")
	}
}

func TestSymmetricDifference(t *testing.T) {
	a := newIntSet(1, 2, 3)
	b := newIntSet(2, 3, 4)
	sd := a.SymmetricDifference(b)
	if sd.Size() != 2 {
		t.Fatalf("SymmetricDifference Size = %d, want 2", sd.Size())
	}
	if !sd.Contains(1) || !sd.Contains(4) {
		t.Fatalf("SymmetricDifference missing expected elements")
	}
}

func TestUpdate(t *testing.T) {
	s := newIntSet(1, 2)
	s2 := s.Update(slices.Values([]int{2, 3, 4}))
	if s2.Size() != 4 {
		t.Fatalf("Size = %d, want 4", s2.Size())
	}
	if s.Size() != 2 {
		t.Fatalf("original Size = %d, want 2 (receiver unchanged)", s.Size())
	}
}

func TestSubsetSupersetDisjoint(t *testing.T) {
	a := newIntSet(1, 2)
	b := newIntSet(1, 2, 3)
	c := newIntSet(9, 10)

	if !a.IsSubset(b) {
		t.Fatalf("IsSubset = false, want true")
	}
	if a.IsSubset(c) {
		t.Fatalf("IsSubset = true, want false")
	}
	if !b.IsSuperset(a) {
		t.Fatalf("IsSuperset = false, want true")
	}
	if !a.IsDisjoint(c) {
		t.Fatalf("IsDisjoint = false, want true")
	}
	if a.IsDisjoint(b) {
		t.Fatalf("IsDisjoint = true, want false")
	}
}

func TestEqual(t *testing.T) {
	a := newIntSet(1, 2, 3)
	b := newIntSet(3, 2, 1)
	if !a.Equal(b) {
		t.Fatalf("Equal = false, want true (order-independent)")
	}
	c := newIntSet(1, 2)
	if a.Equal(c) {
		t.Fatalf("Equal = true, want false (different size)")
	}
}
