package coll

import (
	"cmp"

	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/ValentinKolb/dColl/lib/util"
)

// notNil asserts that an object handed to an index is not nil
func notNil[E any](e *E) bool {
	return common.Assertf(e != nil, "nil object passed to an index")
}

// --------------------------------------------------------------------------
// Value sets (raw comparison, no duplicates)
// --------------------------------------------------------------------------

// ValueSet is a sorted set of primitive values
type ValueSet[T cmp.Ordered] struct {
	*SortedCollection[T, T]
}

// NewValueSet creates an empty ValueSet
func NewValueSet[T cmp.Ordered](values ...T) ValueSet[T] {
	s := ValueSet[T]{New[T, T](OrderedStrategy[T]{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and returns its index. Adding a present value is a no-op.
func (s ValueSet[T]) Add(v T) int { return s.AddSorted(v, CollisionIgnore) }

// Contains reports whether v is in the set
func (s ValueSet[T]) Contains(v T) bool { return s.FindForKey(v) != NotFound }

// Remove removes v
func (s ValueSet[T]) Remove(v T) bool { return s.RemoveByKey(v) }

// BytesSet is a sorted set of byte records compared byte-wise
type BytesSet struct {
	*SortedCollection[[]byte, []byte]
}

// NewBytesSet creates an empty BytesSet
func NewBytesSet() BytesSet {
	return BytesSet{New[[]byte, []byte](BytesStrategy{})}
}

// Add inserts a copy of b and returns its index. Adding present bytes is a no-op.
func (s BytesSet) Add(b []byte) int {
	i, res := s.FindNear(b)
	if res == Equal {
		return i
	}
	return s.AddPresorted(i, res, append([]byte(nil), b...))
}

// Contains reports whether b is in the set
func (s BytesSet) Contains(b []byte) bool { return s.FindForKey(b) != NotFound }

// --------------------------------------------------------------------------
// NameIndex (case-insensitive names, no duplicates)
// --------------------------------------------------------------------------

// NameIndex indexes objects by a case-insensitive name.
// Names differing only in case are duplicates; adding one replaces the other.
type NameIndex[E any] struct {
	*SortedCollection[*E, string]
	nameOf func(*E) string
}

// NewNameIndex creates an empty NameIndex using nameOf to read the name of an object
func NewNameIndex[E any](nameOf func(*E) string) NameIndex[E] {
	return NameIndex[E]{
		SortedCollection: New[*E, string](nameStrategy[E]{nameOf: nameOf}),
		nameOf:           nameOf,
	}
}

// Add inserts e, replacing an object with the same name. Returns its index.
func (x NameIndex[E]) Add(e *E) int {
	if !notNil(e) {
		return NotFound
	}
	return x.AddSorted(e, CollisionReplace)
}

// Remove removes e if it is the object stored under its name
func (x NameIndex[E]) Remove(e *E) bool {
	if e == nil {
		return false
	}
	return x.RemoveByKeyAndIdentity(e, x.nameOf(e))
}

// --------------------------------------------------------------------------
// HashIndex (hash codes, no duplicates)
// --------------------------------------------------------------------------

// HashIndex indexes objects by a 64 bit hash code.
// It is a sorted index of hash codes, not a hash table: lookups are
// O(log n), inserts O(n), and there is no bucket or resize machinery.
type HashIndex[E any] struct {
	*SortedCollection[*E, util.HashCode]
	hashOf func(*E) util.HashCode
	seed   uint64
}

// NewHashIndex creates an empty HashIndex using hashOf to read the code of an object
func NewHashIndex[E any](hashOf func(*E) util.HashCode) HashIndex[E] {
	return HashIndex[E]{
		SortedCollection: New[*E, util.HashCode](hashStrategy[E]{hashOf: hashOf}),
		hashOf:           hashOf,
	}
}

// NewStringHashIndex creates a HashIndex whose codes are the seeded FNV-1a
// hash of a string read from the object. Use HashKey for lookups.
func NewStringHashIndex[E any](keyOf func(*E) string, seed uint64) HashIndex[E] {
	hashOf := func(e *E) util.HashCode {
		return util.HashString(keyOf(e), seed)
	}
	return HashIndex[E]{
		SortedCollection: New[*E, util.HashCode](hashStrategy[E]{hashOf: hashOf}),
		hashOf:           hashOf,
		seed:             seed,
	}
}

// HashKey returns the lookup key of s for an index created by NewStringHashIndex
func (x HashIndex[E]) HashKey(s string) util.HashCode {
	return util.HashString(s, x.seed)
}

// Add inserts e, replacing an object with the same hash code. Returns its index.
func (x HashIndex[E]) Add(e *E) int {
	if !notNil(e) {
		return NotFound
	}
	return x.AddSorted(e, CollisionReplace)
}

// Remove removes e if it is the object stored under its code
func (x HashIndex[E]) Remove(e *E) bool {
	if e == nil {
		return false
	}
	return x.RemoveByKeyAndIdentity(e, x.hashOf(e))
}

// --------------------------------------------------------------------------
// SortValueIndex (duplicate values, unique objects)
// --------------------------------------------------------------------------

// SortValueIndex orders objects by a sort value. Several objects may share a
// value, an object can only be stored once. Objects with equal values keep
// their insertion order.
//
// The index wraps its collection instead of embedding it: every mutation has
// to keep the insertion sequence table in step with the stored objects.
type SortValueIndex[E any, V cmp.Ordered] struct {
	c       *SortedCollection[*E, V]
	valueOf func(*E) V
	order   *insertionOrder[E]
}

// NewSortValueIndex creates an empty SortValueIndex using valueOf to read the sort value
func NewSortValueIndex[E any, V cmp.Ordered](valueOf func(*E) V) *SortValueIndex[E, V] {
	order := newInsertionOrder[E]()
	return &SortValueIndex[E, V]{
		c:       New[*E, V](sortValueStrategy[E, V]{valueOf: valueOf, order: order}),
		valueOf: valueOf,
		order:   order,
	}
}

// Len returns the number of stored objects
func (x *SortValueIndex[E, V]) Len() int { return x.c.Len() }

// At returns the object at index i
func (x *SortValueIndex[E, V]) At(i int) *E { return x.c.At(i) }

// Items returns the objects in sorted order
func (x *SortValueIndex[E, V]) Items() []*E { return x.c.Items() }

// IsSorted reports whether the sort invariant holds
func (x *SortValueIndex[E, V]) IsSorted() bool { return x.c.IsSorted() }

// FindForKey returns the index of an object with value v, or NotFound
func (x *SortValueIndex[E, V]) FindForKey(v V) int { return x.c.FindForKey(v) }

// FindFirstForKey returns the lowest index of an object with value v, or NotFound
func (x *SortValueIndex[E, V]) FindFirstForKey(v V) int { return x.c.FindFirstForKey(v) }

// FindLastForKey returns the highest index of an object with value v, or NotFound
func (x *SortValueIndex[E, V]) FindLastForKey(v V) int { return x.c.FindLastForKey(v) }

// FindNearByKey returns the position of value v (see SortedCollection.FindNearByKey)
func (x *SortValueIndex[E, V]) FindNearByKey(v V) (int, Result) { return x.c.FindNearByKey(v) }

// Contains reports whether e is stored
func (x *SortValueIndex[E, V]) Contains(e *E) bool {
	if e == nil {
		return false
	}
	_, ok := x.order.seqs[e]
	return ok
}

// IndexOf returns the index of e, or NotFound
func (x *SortValueIndex[E, V]) IndexOf(e *E) int {
	if !x.Contains(e) {
		return NotFound
	}
	i, res := x.c.FindNear(e)
	if res != Equal {
		return NotFound
	}
	return i
}

// Add inserts e after all stored objects with the same value. Adding a
// stored object again is a no-op that returns its current index.
func (x *SortValueIndex[E, V]) Add(e *E) int {
	if !notNil(e) {
		return NotFound
	}
	x.order.assign(e)
	return x.c.AddSorted(e, CollisionAssert)
}

// AddAfter inserts e directly after the last object with the same value,
// expressed as FindLastForKey followed by an insert after that index.
func (x *SortValueIndex[E, V]) AddAfter(e *E) int {
	if !notNil(e) {
		return NotFound
	}
	if i := x.IndexOf(e); i != NotFound {
		return i
	}
	last := x.c.FindLastForKey(x.valueOf(e))
	x.order.assign(e)
	if last == NotFound {
		return x.c.AddSorted(e, CollisionAssert)
	}
	return x.c.AddPresorted(last, Greater, e)
}

// Remove removes exactly e, even when other objects share its value
func (x *SortValueIndex[E, V]) Remove(e *E) bool {
	if !x.Contains(e) {
		return false
	}
	if !x.c.RemoveByKeyAndIdentity(e, x.valueOf(e)) {
		return false
	}
	x.order.forget(e)
	return true
}

// RemoveAt removes and returns the object at index i
func (x *SortValueIndex[E, V]) RemoveAt(i int) *E {
	e := x.c.RemoveAt(i)
	x.order.forget(e)
	return e
}

// Clear removes all objects
func (x *SortValueIndex[E, V]) Clear() {
	x.c.Clear()
	clear(x.order.seqs)
}
