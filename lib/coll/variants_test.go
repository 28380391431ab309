package coll

import (
	"testing"

	"github.com/ValentinKolb/dColl/lib/util"
)

type job struct {
	name     string
	priority int
}

// TestSortValueIndexScenario inserts [5, 2, 8, 2] and removes the first 2 by reference
func TestSortValueIndexScenario(t *testing.T) {
	idx := NewSortValueIndex(func(j *job) int { return j.priority })

	five, twoA, eight, twoB := &job{"a", 5}, &job{"b", 2}, &job{"c", 8}, &job{"d", 2}
	for _, j := range []*job{five, twoA, eight, twoB} {
		if idx.Add(j) == NotFound {
			t.Fatalf("Add(%s) returned NotFound", j.name)
		}
	}

	wantValues := []int{2, 2, 5, 8}
	for i, v := range wantValues {
		if got := idx.At(i).priority; got != v {
			t.Errorf("index %d: got priority %d, want %d", i, got, v)
		}
	}

	if first := idx.FindFirstForKey(2); first != 0 {
		t.Errorf("FindFirstForKey(2) = %d, want 0", first)
	}
	if last := idx.FindLastForKey(2); last != 1 {
		t.Errorf("FindLastForKey(2) = %d, want 1", last)
	}

	// equal values keep insertion order
	if idx.At(0) != twoA || idx.At(1) != twoB {
		t.Errorf("expected insertion order among equal values")
	}

	refToFirst2 := idx.At(0)
	if !idx.Remove(refToFirst2) {
		t.Fatal("Remove of the first 2 failed")
	}

	if idx.Len() != 3 {
		t.Fatalf("expected 3 elements after remove, got %d", idx.Len())
	}
	if idx.At(0) != twoB {
		t.Errorf("the surviving 2 should be the previously second one")
	}
	if idx.Contains(refToFirst2) {
		t.Error("removed object still reported as contained")
	}
	if !idx.IsSorted() {
		t.Error("index unsorted after remove")
	}
}

// TestSortValueIndexNoDuplicateObjects tests that an object is stored once
func TestSortValueIndexNoDuplicateObjects(t *testing.T) {
	withDebugAsserts(t, true)
	idx := NewSortValueIndex(func(j *job) int { return j.priority })

	j := &job{"x", 1}
	first := idx.Add(j)
	second := idx.Add(j)
	third := idx.AddAfter(j)

	if first != second || second != third {
		t.Errorf("re-adding the same object returned %d, %d, %d", first, second, third)
	}
	if idx.Len() != 1 {
		t.Errorf("expected 1 element, got %d", idx.Len())
	}

	// distinct objects with equal values all fit
	for i := 0; i < 5; i++ {
		idx.Add(&job{"y", 1})
	}
	if idx.Len() != 6 {
		t.Errorf("expected 6 elements, got %d", idx.Len())
	}
	for i := 0; i < idx.Len(); i++ {
		for k := i + 1; k < idx.Len(); k++ {
			if idx.At(i) == idx.At(k) {
				t.Fatalf("object stored twice at %d and %d", i, k)
			}
		}
	}
}

// TestSortValueIndexAddAfter tests appending after the last equal value
func TestSortValueIndexAddAfter(t *testing.T) {
	idx := NewSortValueIndex(func(j *job) int { return j.priority })
	idx.Add(&job{"low", 1})
	idx.Add(&job{"mid-1", 5})
	idx.Add(&job{"mid-2", 5})
	idx.Add(&job{"high", 9})

	late := &job{"mid-3", 5}
	i := idx.AddAfter(late)
	if i != 3 {
		t.Errorf("AddAfter placed the object at %d, want 3", i)
	}
	if idx.FindLastForKey(5) != i {
		t.Errorf("object added after should end the run of equal values")
	}

	lone := &job{"new", 7}
	if j := idx.AddAfter(lone); idx.At(j) != lone {
		t.Errorf("AddAfter without equal values misplaced the object")
	}
	if !idx.IsSorted() {
		t.Error("index unsorted after AddAfter")
	}

	// removing a different object with the same value leaves late in place
	if !idx.Remove(idx.At(idx.FindFirstForKey(5))) {
		t.Fatal("Remove failed")
	}
	if idx.IndexOf(late) == NotFound {
		t.Error("late object lost after removing a sibling")
	}
}

// TestNameIndexCaseInsensitive tests lookups and duplicate handling by name
func TestNameIndexCaseInsensitive(t *testing.T) {
	type svc struct{ name string }
	x := NewNameIndex(func(s *svc) string { return s.name })

	for _, n := range []string{"Beta", "alpha", "Gamma"} {
		x.Add(&svc{n})
	}

	want := []string{"alpha", "Beta", "Gamma"}
	for i, n := range want {
		if x.At(i).name != n {
			t.Errorf("index %d: got %s, want %s", i, x.At(i).name, n)
		}
	}

	if _, ok := x.Get("GAMMA"); !ok {
		t.Error("case-insensitive lookup failed")
	}

	replacement := &svc{"BETA"}
	x.Add(replacement)
	if x.Len() != 3 {
		t.Errorf("a case variant must replace, not add: size %d", x.Len())
	}
	if got, _ := x.Get("beta"); got != replacement {
		t.Error("case variant did not replace the stored object")
	}

	if !x.Remove(replacement) {
		t.Error("Remove of the stored object failed")
	}
}

// TestHashIndex tests the seeded string hash index
func TestHashIndex(t *testing.T) {
	type entry struct {
		key   string
		value int
	}
	x := NewStringHashIndex(func(e *entry) string { return e.key }, 99)

	for i, k := range []string{"one", "two", "three", "four"} {
		x.Add(&entry{k, i})
	}

	for i, k := range []string{"one", "two", "three", "four"} {
		e, ok := x.Get(x.HashKey(k))
		if !ok {
			t.Errorf("%s not found by hash key", k)
			continue
		}
		if e.value != i {
			t.Errorf("%s: got value %d, want %d", k, e.value, i)
		}
	}

	if !x.IsSorted() {
		t.Error("hash index unsorted")
	}

	if _, ok := x.Get(util.HashString("three", 99)); !ok {
		t.Error("codes from util.HashString must be usable as keys")
	}

	dup := &entry{"two", 42}
	x.Add(dup)
	if x.Len() != 4 {
		t.Errorf("duplicate hash code must replace: size %d", x.Len())
	}
	if !x.Remove(dup) || x.Len() != 3 {
		t.Error("Remove by identity failed")
	}
}

// TestCustomHashIndex tests a HashIndex over precomputed codes
func TestCustomHashIndex(t *testing.T) {
	type obj struct{ code util.HashCode }
	x := NewHashIndex(func(o *obj) util.HashCode { return o.code })
	x.Add(&obj{30})
	x.Add(&obj{10})
	x.Add(&obj{20})

	if x.FindForKey(20) != 1 {
		t.Errorf("expected code 20 at index 1, got %d", x.FindForKey(20))
	}
}

// TestBytesSet tests byte-wise ordering and copy-on-insert
func TestBytesSet(t *testing.T) {
	s := NewBytesSet()
	buf := []byte("bbb")
	s.Add(buf)
	s.Add([]byte("aaa"))
	s.Add([]byte("ccc"))
	s.Add([]byte("bbb"))

	if s.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Len())
	}

	buf[0] = 'z'
	if !s.Contains([]byte("bbb")) {
		t.Error("stored record changed with the caller's buffer")
	}
	if string(s.At(0)) != "aaa" || string(s.At(2)) != "ccc" {
		t.Errorf("unexpected order: %q", s.Items())
	}
}

// TestCompareFold tests the case-insensitive comparison
func TestCompareFold(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "ABC", 0},
		{"abc", "abd", -1},
		{"ABD", "abc", 1},
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"", "", 0},
		{"Straße", "STRASSE", 1},
		{"Ärger", "ärger", 0},
	}

	for _, tt := range tests {
		got := CompareFold(tt.a, tt.b)
		if (got < 0 && tt.want >= 0) || (got > 0 && tt.want <= 0) || (got == 0 && tt.want != 0) {
			t.Errorf("CompareFold(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}
