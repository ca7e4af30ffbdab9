package indexedlist

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/cmarschner/gopersistent/fail"
)

func TestConjAndNth(t *testing.T) {
	l := New[int]()
	for i := 0; i < 100; i++ {
		l = l.Conj(i)
	}
	if l.Size() != 100 {
		t.Fatalf("Size = %d, want 100", l.Size())
	}
	v, err := l.Nth(50)
	if err != nil || v != 50 {
		t.Fatalf("Nth(50) = (%d, %v), want (50, nil)", v, err)
	}
}

func TestNthNegativeIndex(t *testing.T) {
	l := Of[int](10, 20, 30)
	v, err := l.Nth(-1)
	if err != nil || v != 30 {
		t.Fatalf("Nth(-1) = (%d, %v), want (30, nil)", v, err)
	}
	v, err = l.Nth(-3)
	if err != nil || v != 10 {
		t.Fatalf("Nth(-3) = (%d, %v), want (10, nil)", v, err)
	}
}

func TestNthOutOfRange(t *testing.T) {
	l := Of[int](1, 2, 3)
	_, err := l.Nth(3)
	if !errors.Is(err, fail.ErrIndexOutOfRange) {
		t.Fatalf("Nth(3) err = %v, want ErrIndexOutOfRange", err)
	}
	_, err = l.Nth(-4)
	if !errors.Is(err, fail.ErrIndexOutOfRange) {
		t.Fatalf("Nth(-4) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestGetWithDefault(t *testing.T) {
	l := Of[int](1, 2, 3)
	if v := l.Get(1, -1); v != 2 {
		t.Fatalf("Get(1, -1) = %d, want 2", v)
	}
	if v := l.Get(99, -1); v != -1 {
		t.Fatalf("Get(99, -1) = %d, want -1", v)
	}
}

func TestAssocOutOfRange(t *testing.T) {
	l := Of[int](1, 2, 3)
	_, err := l.Assoc(5, 0)
	if !errors.Is(err, fail.ErrIndexOutOfRange) {
		t.Fatalf("Assoc(5,0) err = %v, want ErrIndexOutOfRange", err)
	}

	updated, err := l.Assoc(1, 99)
	if err != nil {
		t.Fatalf("Assoc(1, 99) unexpected error: %v", err)
	}
	if v, _ := updated.Nth(1); v != 99 {
		t.Fatalf("Nth(1) after Assoc = %d, want 99", v)
	}
	if v, _ := l.Nth(1); v != 2 {
		t.Fatalf("original Nth(1) = %d, want 2 (receiver unchanged)", v)
	}
}

func TestPopAndEmptyQuery(t *testing.T) {
	l := New[int]()
	_, err := l.Pop()
	if !errors.Is(err, fail.ErrEmptyQuery) {
		t.Fatalf("Pop on empty err = %v, want ErrEmptyQuery", err)
	}

	l = Of[int](1, 2, 3)
	popped, err := l.Pop()
	if err != nil {
		t.Fatalf("Pop unexpected error: %v", err)
	}
	if popped.Size() != 2 {
		t.Fatalf("Size after Pop = %d, want 2", popped.Size())
	}
	if l.Size() != 3 {
		t.Fatalf("original Size = %d, want 3 (receiver unchanged)", l.Size())
	}
}

func TestSliceBasicAndClamped(t *testing.T) {
	l := New[int]()
	for i := 0; i < 20; i++ {
		l = l.Conj(i)
	}
	sl := l.Slice(5, 10)
	if sl.Size() != 5 {
		t.Fatalf("Slice(5,10) Size = %d, want 5", sl.Size())
	}
	for i := 0; i < 5; i++ {
		v, _ := sl.Nth(i)
		if v != i+5 {
			t.Fatalf("Slice(5,10).Nth(%d) = %d, want %d", i, v, i+5)
		}
	}

	clamped := l.Slice(-1000, 1000)
	if clamped.Size() != 20 {
		t.Fatalf("Slice(-1000,1000) Size = %d, want 20", clamped.Size())
	}

	empty := l.Slice(10, 5)
	if empty.Size() != 0 {
		t.Fatalf("Slice(10,5) Size = %d, want 0 (empty range)", empty.Size())
	}
}

func TestFromIterableAndList(t *testing.T) {
	l := FromIterable[int](slices.Values([]int{1, 2, 3}))
	if l.Size() != 3 {
		t.Fatalf("Size = %d, want 3", l.Size())
	}
	got := l.List()
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("List = %v, want [1 2 3]", got)
	}
}

func TestItemsOrder(t *testing.T) {
	l := New[int]()
	for i := 0; i < 200; i++ {
		l = l.Conj(i * i)
	}
	count := 0
	for i, v := range l.Items() {
		if v != i*i {
			t.Fatalf("Items index %d = %d, want %d", i, v, i*i)
		}
		count++
	}
	if count != 200 {
		t.Fatalf("Items visited %d elements, want 200", count)
	}
}

func TestDifferentialConjAssocPopAgainstSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	l := New[int]()
	var reference []int

	for step := 0; step < 5000; step++ {
		switch rng.Intn(3) {
		case 0, 1:
			v := rng.Intn(1_000_000)
			l = l.Conj(v)
			reference = append(reference, v)
		case 2:
			if len(reference) > 0 && rng.Intn(2) == 0 {
				idx := rng.Intn(len(reference))
				v := rng.Intn(1_000_000)
				var err error
				l, err = l.Assoc(idx, v)
				if err != nil {
					t.Fatalf("step %d: Assoc(%d) error: %v", step, idx, err)
				}
				reference[idx] = v
			} else if len(reference) > 0 {
				var err error
				l, err = l.Pop()
				if err != nil {
					t.Fatalf("step %d: Pop error: %v", step, err)
				}
				reference = reference[:len(reference)-1]
			}
		}
		if l.Size() != len(reference) {
			t.Fatalf("step %d: Size = %d, want %d", step, l.Size(), len(reference))
		}
	}

	for i, want := range reference {
		got, err := l.Nth(i)
		if err != nil || got != want {
			t.Fatalf("index %d: got (%d,%v), want (%d,nil)", i, got, err, want)
		}
	}
}
