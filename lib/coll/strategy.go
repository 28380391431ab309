package coll

import (
	"bytes"
	"cmp"
	"unicode"
	"unicode/utf8"

	"github.com/ValentinKolb/dColl/lib/util"
)

// Strategy defines the ordering of a SortedCollection.
//
// CompareElems and CompareKey return a negative number, zero or a positive
// number when the first argument sorts before, equal to or after the element.
// Both must induce the same order (see the package documentation).
// Identical reports whether two elements are the same object (or, for plain
// values, the same value); AddSorted treats re-adding an identical element as a no-op.
type Strategy[T any, K any] interface {
	CompareElems(a, b T) int
	CompareKey(key K, elem T) int
	Identical(a, b T) bool
}

// StrategyFuncs adapts plain functions to the Strategy interface.
// Same is required: elements that only compare equal are collisions, not the
// same object. New asserts on a nil Same, and Identical then reports false.
type StrategyFuncs[T any, K any] struct {
	Elems func(a, b T) int
	Key   func(key K, elem T) int
	Same  func(a, b T) bool
}

func (s StrategyFuncs[T, K]) CompareElems(a, b T) int      { return s.Elems(a, b) }
func (s StrategyFuncs[T, K]) CompareKey(key K, elem T) int { return s.Key(key, elem) }

func (s StrategyFuncs[T, K]) Identical(a, b T) bool {
	if s.Same == nil {
		return false
	}
	return s.Same(a, b)
}

// --------------------------------------------------------------------------
// Raw value strategies
// --------------------------------------------------------------------------

// OrderedStrategy orders primitive values by their natural order.
// The element is its own key.
type OrderedStrategy[T cmp.Ordered] struct{}

func (OrderedStrategy[T]) CompareElems(a, b T) int      { return cmp.Compare(a, b) }
func (OrderedStrategy[T]) CompareKey(key T, elem T) int { return cmp.Compare(key, elem) }
func (OrderedStrategy[T]) Identical(a, b T) bool        { return cmp.Compare(a, b) == 0 }

// BytesStrategy orders byte slices byte-wise.
// Used for records compared as raw bytes; the full record is the key.
type BytesStrategy struct{}

func (BytesStrategy) CompareElems(a, b []byte) int    { return bytes.Compare(a, b) }
func (BytesStrategy) CompareKey(key, elem []byte) int { return bytes.Compare(key, elem) }
func (BytesStrategy) Identical(a, b []byte) bool      { return bytes.Equal(a, b) }

// --------------------------------------------------------------------------
// Name strategy
// --------------------------------------------------------------------------

// CompareFold compares two strings case-insensitively, rune by rune.
// Strings that differ only in case compare equal.
func CompareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]

		if ra == rb {
			continue
		}
		if la, lb := unicode.ToLower(ra), unicode.ToLower(rb); la != lb {
			return cmp.Compare(la, lb)
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// nameStrategy orders *E by a case-insensitive name
type nameStrategy[E any] struct {
	nameOf func(*E) string
}

func (s nameStrategy[E]) CompareElems(a, b *E) int {
	return CompareFold(s.nameOf(a), s.nameOf(b))
}

func (s nameStrategy[E]) CompareKey(key string, elem *E) int {
	return CompareFold(key, s.nameOf(elem))
}

func (nameStrategy[E]) Identical(a, b *E) bool { return a == b }

// --------------------------------------------------------------------------
// Hash strategy
// --------------------------------------------------------------------------

// hashStrategy orders *E by a 64 bit hash code
type hashStrategy[E any] struct {
	hashOf func(*E) util.HashCode
}

func (s hashStrategy[E]) CompareElems(a, b *E) int {
	return cmp.Compare(s.hashOf(a), s.hashOf(b))
}

func (s hashStrategy[E]) CompareKey(key util.HashCode, elem *E) int {
	return cmp.Compare(key, s.hashOf(elem))
}

func (hashStrategy[E]) Identical(a, b *E) bool { return a == b }

// --------------------------------------------------------------------------
// Sort value strategy (duplicate values, unique objects)
// --------------------------------------------------------------------------

// sortValueStrategy orders *E by a sort value and breaks ties by the
// insertion sequence of the object. The sequence gives a strict total order
// among equal values that is stable across runs for the same insertion order.
// Objects without a sequence (never inserted) sort after all inserted
// objects with the same value.
type sortValueStrategy[E any, V cmp.Ordered] struct {
	valueOf func(*E) V
	order   *insertionOrder[E]
}

func (s sortValueStrategy[E, V]) CompareElems(a, b *E) int {
	if c := cmp.Compare(s.valueOf(a), s.valueOf(b)); c != 0 {
		return c
	}
	if a == b {
		return 0
	}
	return cmp.Compare(s.order.seq(a), s.order.seq(b))
}

func (s sortValueStrategy[E, V]) CompareKey(key V, elem *E) int {
	return cmp.Compare(key, s.valueOf(elem))
}

func (sortValueStrategy[E, V]) Identical(a, b *E) bool { return a == b }

// insertionOrder hands out increasing sequence numbers per object
type insertionOrder[E any] struct {
	next uint64
	seqs map[*E]uint64
}

func newInsertionOrder[E any]() *insertionOrder[E] {
	return &insertionOrder[E]{seqs: make(map[*E]uint64)}
}

// seq returns the sequence of e, or the maximum for unknown objects
func (o *insertionOrder[E]) seq(e *E) uint64 {
	if s, ok := o.seqs[e]; ok {
		return s
	}
	return ^uint64(0)
}

// assign gives e a sequence if it has none yet
func (o *insertionOrder[E]) assign(e *E) {
	if _, ok := o.seqs[e]; ok {
		return
	}
	o.next++
	o.seqs[e] = o.next
}

func (o *insertionOrder[E]) forget(e *E) {
	delete(o.seqs, e)
}
