package coll

import (
	"iter"
	"slices"

	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LoggerColl)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// NotFound is the index returned when a search or an insert does not yield a position
const NotFound = -1

// Result is the tri-state outcome of a binary search relative to the returned index
type Result int

const (
	Less    Result = -1 // the candidate belongs before the index
	Equal   Result = 0  // the candidate matches the element at the index
	Greater Result = 1  // the candidate belongs after the index
)

func (r Result) String() string {
	switch r {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Unknown"
	}
}

// Collision selects what AddSorted does when the new element compares equal
// to an element that is already stored (and is not the same object).
type Collision int

const (
	CollisionUnset   Collision = iota // zero value, rejected as a programmer error
	CollisionIgnore                   // keep the stored element, drop the new one
	CollisionReplace                  // overwrite the stored element
	CollisionAssert                   // a collision is a programmer error
)

func (c Collision) String() string {
	switch c {
	case CollisionUnset:
		return "Unset"
	case CollisionIgnore:
		return "Ignore"
	case CollisionReplace:
		return "Replace"
	case CollisionAssert:
		return "Assert"
	default:
		return "Unknown"
	}
}

// sign clamps a comparison result to Less, Equal or Greater
func sign(c int) Result {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// Source is anything that exposes its elements by index.
// Both SortedCollection and the index variants satisfy it.
type Source[T any] interface {
	Len() int
	At(i int) T
}

// --------------------------------------------------------------------------
// SortedCollection
// --------------------------------------------------------------------------

// SortedCollection keeps its elements ordered by a Strategy.
// For every adjacent pair CompareElems(items[i], items[i+1]) <= 0 holds after
// every mutating call, except RemoveAt and AddPresorted which trust the caller.
//
// Thread-safety: SortedCollection is not synchronized.
type SortedCollection[T any, K any] struct {
	items    []T
	strategy Strategy[T, K]
}

// New creates an empty collection ordered by strategy
func New[T any, K any](strategy Strategy[T, K]) *SortedCollection[T, K] {
	checkStrategy(strategy)
	return &SortedCollection[T, K]{
		items:    make([]T, 0),
		strategy: strategy,
	}
}

// NewWithCapacity is New with a preallocated backing slice
func NewWithCapacity[T any, K any](strategy Strategy[T, K], capacity int) *SortedCollection[T, K] {
	checkStrategy(strategy)
	return &SortedCollection[T, K]{
		items:    make([]T, 0, capacity),
		strategy: strategy,
	}
}

// checkStrategy asserts that a StrategyFuncs carries an identity function
func checkStrategy[T any, K any](strategy Strategy[T, K]) {
	if sf, ok := strategy.(StrategyFuncs[T, K]); ok {
		common.Assertf(sf.Same != nil, "StrategyFuncs without Same, equal elements are never identical")
	}
}

// Strategy returns the comparison strategy of the collection
func (c *SortedCollection[T, K]) Strategy() Strategy[T, K] { return c.strategy }

// Len returns the number of elements
func (c *SortedCollection[T, K]) Len() int { return len(c.items) }

// At returns the element at index i. Panics if i is out of range.
func (c *SortedCollection[T, K]) At(i int) T { return c.items[i] }

// Items returns a copy of the elements in sorted order
func (c *SortedCollection[T, K]) Items() []T { return slices.Clone(c.items) }

// All iterates over the elements in sorted order.
// The collection must not be mutated during iteration.
func (c *SortedCollection[T, K]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Clear removes all elements
func (c *SortedCollection[T, K]) Clear() {
	clear(c.items)
	c.items = c.items[:0]
}

// IsSorted reports whether the sort invariant holds for all adjacent pairs
func (c *SortedCollection[T, K]) IsSorted() bool {
	for i := 0; i+1 < len(c.items); i++ {
		if c.strategy.CompareElems(c.items[i], c.items[i+1]) > 0 {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Search
// --------------------------------------------------------------------------

// search is the binary search shared by FindNear and FindNearByKey.
// cmp compares the searched value against the element at index i.
func (c *SortedCollection[T, K]) search(cmp func(i int) int) (int, Result) {
	lo, hi := 0, len(c.items)-1
	i, res := 0, Less

	for lo <= hi {
		i = int(uint(lo+hi) >> 1)
		res = sign(cmp(i))
		switch res {
		case Equal:
			return i, Equal
		case Less:
			hi = i - 1
		default:
			lo = i + 1
		}
	}

	// i is the last probed index; res tells on which side of it the value belongs
	return i, res
}

// FindNear locates candidate using CompareElems.
// Returns the index of an equal element and Equal, or the insertion point
// relative to the returned index (Less: before it, Greater: after it).
// On an empty collection it returns 0 and Less.
func (c *SortedCollection[T, K]) FindNear(candidate T) (int, Result) {
	return c.search(func(i int) int {
		return c.strategy.CompareElems(candidate, c.items[i])
	})
}

// FindNearByKey is FindNear for callers that only hold a key. It uses CompareKey.
// For a key consistent with CompareElems it yields the same index as FindNear.
func (c *SortedCollection[T, K]) FindNearByKey(key K) (int, Result) {
	return c.search(func(i int) int {
		return c.strategy.CompareKey(key, c.items[i])
	})
}

// FindForKey returns the index of an element matching key, or NotFound.
// With duplicate keys any index of the run may be returned.
func (c *SortedCollection[T, K]) FindForKey(key K) int {
	i, res := c.FindNearByKey(key)
	if res != Equal {
		return NotFound
	}
	return i
}

// FindFirstForKey returns the lowest index holding key, or NotFound.
// Costs O(log n) plus the length of the run of equal keys.
func (c *SortedCollection[T, K]) FindFirstForKey(key K) int {
	i := c.FindForKey(key)
	if i == NotFound {
		return NotFound
	}
	for i > 0 && c.strategy.CompareKey(key, c.items[i-1]) == 0 {
		i--
	}
	return i
}

// FindLastForKey returns the highest index holding key, or NotFound.
// Costs O(log n) plus the length of the run of equal keys.
func (c *SortedCollection[T, K]) FindLastForKey(key K) int {
	i := c.FindForKey(key)
	if i == NotFound {
		return NotFound
	}
	for i+1 < len(c.items) && c.strategy.CompareKey(key, c.items[i+1]) == 0 {
		i++
	}
	return i
}

// Get returns the element matching key
func (c *SortedCollection[T, K]) Get(key K) (T, bool) {
	i := c.FindForKey(key)
	if i == NotFound {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// --------------------------------------------------------------------------
// Insert
// --------------------------------------------------------------------------

// AddPresorted inserts elem at a position computed by FindNear or FindNearByKey.
// With res == Greater the element goes after index, otherwise at index.
// Returns the index of the inserted element.
//
// The position is trusted: passing a stale or foreign position breaks the sort order.
func (c *SortedCollection[T, K]) AddPresorted(index int, res Result, elem T) int {
	if res > Equal {
		index++
	}
	c.items = slices.Insert(c.items, index, elem)
	return index
}

// AddSorted inserts elem at its sorted position.
//
// If an equal element is stored already:
//   - the same object (Identical): nothing changes, its index is returned
//   - CollisionReplace: the stored element is overwritten, its index is returned
//   - CollisionIgnore: nothing changes, NotFound is returned
//   - CollisionAssert and CollisionUnset: assertion, nothing changes, NotFound is returned
func (c *SortedCollection[T, K]) AddSorted(elem T, policy Collision) int {
	i, res := c.FindNear(elem)
	if res != Equal {
		return c.AddPresorted(i, res, elem)
	}

	if c.strategy.Identical(c.items[i], elem) {
		return i
	}

	switch policy {
	case CollisionReplace:
		c.items[i] = elem
		return i
	case CollisionIgnore:
		return NotFound
	case CollisionAssert:
		common.Assertf(false, "collision at index %d in a collection that forbids duplicates", i)
		return NotFound
	default:
		common.Assertf(false, "AddSorted called with collision policy %s", policy)
		return NotFound
	}
}

// AddAll inserts every element of other with CollisionReplace.
// The result is the sorted union, elements of other win ties.
func (c *SortedCollection[T, K]) AddAll(other Source[T]) {
	if other == nil {
		return
	}
	n := other.Len()
	c.items = slices.Grow(c.items, n)
	for i := 0; i < n; i++ {
		c.AddSorted(other.At(i), CollisionReplace)
	}
}

// --------------------------------------------------------------------------
// Remove
// --------------------------------------------------------------------------

// RemoveAt removes and returns the element at index i.
// The index is not validated, out of range indices panic.
func (c *SortedCollection[T, K]) RemoveAt(i int) T {
	elem := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	return elem
}

// RemoveByKey removes an element matching key.
// In collections with duplicate keys an arbitrary element of the run is
// removed; use RemoveByKeyAndIdentity there.
func (c *SortedCollection[T, K]) RemoveByKey(key K) bool {
	i := c.FindForKey(key)
	if i == NotFound {
		return false
	}
	c.RemoveAt(i)
	return true
}

// RemoveByKeyAndIdentity removes candidate, which must be stored under key.
// If key is present but candidate is not the stored object, the call is a
// logic error: it asserts and nothing is removed.
func (c *SortedCollection[T, K]) RemoveByKeyAndIdentity(candidate T, key K) bool {
	i := c.findIdentity(candidate, key)
	if i == NotFound {
		return false
	}
	c.RemoveAt(i)
	return true
}

// findIdentity returns the index of candidate stored under key, or NotFound.
func (c *SortedCollection[T, K]) findIdentity(candidate T, key K) int {
	i, res := c.FindNear(candidate)
	if res == Equal && c.strategy.Identical(c.items[i], candidate) {
		if !common.Assertf(c.strategy.CompareKey(key, c.items[i]) == 0,
			"element at index %d is not stored under the given key", i) {
			return NotFound
		}
		return i
	}

	if c.FindForKey(key) != NotFound {
		common.Assertf(false, "key is present but the stored element is a different object")
	}
	log.Debugf("identity remove: no element for key")
	return NotFound
}

// replaceAt overwrites the element at index i and returns the old one
func (c *SortedCollection[T, K]) replaceAt(i int, elem T) T {
	old := c.items[i]
	c.items[i] = elem
	return old
}
