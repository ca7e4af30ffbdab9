package hashdict

import (
	"math/rand"
	"testing"

	"github.com/cmarschner/gopersistent/fail"
	"github.com/cmarschner/gopersistent/internal/kv"
	"github.com/cmarschner/gopersistent/internal/keyhash"
)

func intEq(a, b int) bool { return a == b }

func newIntDict[V any](ident kv.IdentityFunc[V]) *Dict[int, V] {
	return New[int, V](keyhash.Default[int](), intEq, ident)
}

func TestScenarioOneFromSpec(t *testing.T) {
	d := newIntDict[int](nil)
	d2 := d.Assoc(1, 1).Assoc(2, 2).Dissoc(1)

	if d2.Size() != 1 {
		t.Fatalf("Size = %d, want 1", d2.Size())
	}
	if v, ok := d2.Get(2); !ok || v != 2 {
		t.Fatalf("Get(2) = %d, %v; want 2, true", v, ok)
	}
	if d2.Contains(1) {
		t.Fatalf("Contains(1) = true, want false")
	}
	if v := d2.GetOr(1, 0); v != 0 {
		t.Fatalf("GetOr(1, 0) = %d, want 0", v)
	}
	if d.Size() != 0 {
		t.Fatalf("original dict mutated: Size = %d, want 0", d.Size())
	}
}

func TestScenarioTwoFromSpecFromMapping(t *testing.T) {
	m := make(map[int]int, 10000)
	for i := 0; i < 10000; i++ {
		m[i] = i
	}
	d := FromMapping(m, keyhash.Default[int](), intEq, nil)
	if d.Size() != 10000 {
		t.Fatalf("Size = %d, want 10000", d.Size())
	}
	sum := 0
	for k := range d.Keys() {
		sum += k
	}
	if sum != 49995000 {
		t.Fatalf("sum of keys = %d, want 49995000", sum)
	}
}

func TestMustGetKeyMissing(t *testing.T) {
	d := newIntDict[int](nil).Assoc(1, 1)
	if _, err := d.MustGet(1); err != nil {
		t.Fatalf("MustGet(1) = %v, want nil error", err)
	}
	_, err := d.MustGet(2)
	if err == nil {
		t.Fatalf("MustGet(2) = nil error, want ErrKeyMissing")
	}
	if !errorsIs(err, fail.ErrKeyMissing) {
		t.Fatalf("MustGet(2) err = %v, want wrapping ErrKeyMissing", err)
	}
}

func errorsIs(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func TestAssocOverwriteRightWins(t *testing.T) {
	d := newIntDict[int](nil).Assoc(1, 10)
	d2 := d.Assoc(1, 20)
	if d2.Size() != 1 {
		t.Fatalf("Size = %d, want 1", d2.Size())
	}
	if v, _ := d2.Get(1); v != 20 {
		t.Fatalf("Get(1) = %d, want 20", v)
	}
	if v, _ := d.Get(1); v != 10 {
		t.Fatalf("original Get(1) = %d, want 10 (receiver unchanged)", v)
	}
}

func TestAssocIdentityNoOp(t *testing.T) {
	type box struct{ v int }
	ident := func(a, b *box) bool { return a == b }
	b1 := &box{1}

	d := newIntDict[*box](ident).Assoc(1, b1)
	d2 := d.Assoc(1, b1)
	if d2 != d {
		t.Fatalf("identity assoc must return the receiver unchanged")
	}
}

func TestDissocOfAbsentKeyIsNoOp(t *testing.T) {
	d := newIntDict[int](nil).Assoc(1, 1)
	d2 := d.Dissoc(999)
	if d2 != d {
		t.Fatalf("Dissoc of absent key must return the receiver unchanged")
	}
}

func TestItemsKeysValuesConsistent(t *testing.T) {
	d := newIntDict[int](nil)
	want := map[int]int{}
	for i := 0; i < 200; i++ {
		d = d.Assoc(i, i*i)
		want[i] = i * i
	}

	keys := d.KeysList()
	if len(keys) != 200 {
		t.Fatalf("KeysList len = %d, want 200", len(keys))
	}
	values := d.ValuesList()
	if len(values) != 200 {
		t.Fatalf("ValuesList len = %d, want 200", len(values))
	}
	for k, v := range d.Items() {
		if want[k] != v {
			t.Fatalf("item (%d,%d) mismatch, want %d", k, v, want[k])
		}
	}
	for _, e := range d.ItemsList() {
		if want[e.Key] != e.Value {
			t.Fatalf("ItemsList entry (%d,%d) mismatch, want %d", e.Key, e.Value, want[e.Key])
		}
	}
}

func TestMergeRightWinsAndCount(t *testing.T) {
	// Merge combines the two tries structurally, so both sides must
	// share one hash function.
	hash := keyhash.Default[int]()
	left := New[int, int](hash, intEq, nil)
	for i := 0; i < 100; i++ {
		left = left.Assoc(i, -1)
	}
	right := New[int, int](hash, intEq, nil)
	for i := 50; i < 150; i++ {
		right = right.Assoc(i, 1)
	}

	merged := left.Merge(right)
	if merged.Size() != 150 {
		t.Fatalf("merged Size = %d, want 150", merged.Size())
	}
	for i := 0; i < 150; i++ {
		v, ok := merged.Get(i)
		if !ok {
			t.Fatalf("key %d missing after merge", i)
		}
		want := -1
		if i >= 50 {
			want = 1
		}
		if v != want {
			t.Fatalf("key %d = %d, want %d", i, v, want)
		}
	}

	updated := left.Update(right)
	if !updated.Equal(merged, intEq) {
		t.Fatalf("Update result differs from Merge result")
	}
}

func TestClear(t *testing.T) {
	d := newIntDict[int](nil).Assoc(1, 1).Assoc(2, 2)
	cleared := d.Clear()
	if cleared.Size() != 0 {
		t.Fatalf("Clear Size = %d, want 0", cleared.Size())
	}
	if d.Size() != 2 {
		t.Fatalf("original Size = %d, want 2 (receiver unchanged)", d.Size())
	}
}

func TestEqual(t *testing.T) {
	a := newIntDict[int](nil).Assoc(1, 1).Assoc(2, 2)
	b := newIntDict[int](nil).Assoc(2, 2).Assoc(1, 1)
	if !a.Equal(b, intEq) {
		t.Fatalf("a.Equal(b) = false, want true")
	}
	c := b.Assoc(3, 3)
	if a.Equal(c, intEq) {
		t.Fatalf("a.Equal(c) = true, want false")
	}
}

func TestBulkBuildThresholdMatchesIterative(t *testing.T) {
	const n = 2000 // exceeds config.BulkBuildThreshold
	pairs := make([]kv.Entry[int, int], n)
	for i := range pairs {
		pairs[i] = kv.Entry[int, int]{Key: i, Value: i * 3}
	}
	bulk := FromPairs(pairs, keyhash.Default[int](), intEq, nil)

	iterative := newIntDict[int](nil)
	for _, p := range pairs {
		iterative = iterative.Assoc(p.Key, p.Value)
	}

	if !bulk.Equal(iterative, intEq) {
		t.Fatalf("bulk-built dict differs from iteratively-built dict")
	}
}

func TestDifferentialAgainstMap(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	d := newIntDict[int](nil)
	reference := map[int]int{}

	for step := 0; step < 20000; step++ {
		key := rng.Intn(500)
		if rng.Intn(4) == 0 {
			_, present := reference[key]
			before := d.Size()
			d = d.Dissoc(key)
			delete(reference, key)
			if present && d.Size() != before-1 {
				t.Fatalf("step %d: Dissoc(%d) did not shrink Size", step, key)
			}
		} else {
			val := rng.Intn(1_000_000)
			d = d.Assoc(key, val)
			reference[key] = val
		}

		if d.Size() != len(reference) {
			t.Fatalf("step %d: Size = %d, want %d", step, d.Size(), len(reference))
		}
	}

	for k, want := range reference {
		got, ok := d.Get(k)
		if !ok || got != want {
			t.Fatalf("key %d: got (%d,%v), want (%d,true)", k, got, ok, want)
		}
	}
}

// FuzzAssocDissoc differential-fuzzes the façade the same way
// internal/hamt's own fuzz target exercises the engine beneath it.
func FuzzAssocDissoc(f *testing.F) {
	f.Add([]byte{1, 5, 0, 3, 1, 5, 2, 5})
	f.Add([]byte{2, 1, 2, 2, 2, 3})

	f.Fuzz(func(t *testing.T, ops []byte) {
		if len(ops) > 5000 {
			ops = ops[:5000]
		}
		d := newIntDict[int](nil)
		reference := map[int]int{}

		for i := 0; i+1 < len(ops); i += 2 {
			key := int(ops[i] % 32)
			switch ops[i+1] % 3 {
			case 0, 1:
				val := int(ops[i+1])
				d = d.Assoc(key, val)
				reference[key] = val
			case 2:
				d = d.Dissoc(key)
				delete(reference, key)
			}
			if d.Size() != len(reference) {
				t.Fatalf("Size = %d, want %d", d.Size(), len(reference))
			}
		}

		for k, want := range reference {
			got, ok := d.Get(k)
			if !ok || got != want {
				t.Fatalf("key %d: got (%d,%v), want (%d,true)", k, got, ok, want)
			}
		}
	})
}
