// Package coll implements a generic, slice-backed sorted collection and the
// family of indexed containers built on top of it.
//
// One algorithm, many indexes:
//
//	The SortedCollection engine owns the binary search (FindNear /
//	FindNearByKey), the physical insert (AddPresorted) and the collision
//	handling (AddSorted). What a collection is "indexed by" is decided only by
//	its Strategy: a pair of 3-way comparisons (element vs. element and key vs.
//	element) plus an identity check. The key type K is independent of the
//	element type T, so the same engine serves:
//
//	- ValueSet:        ordered primitive values, no duplicates
//	- BytesSet:        byte-wise compared records, no duplicates
//	- NameIndex:       case-insensitive names, no duplicate names
//	- HashIndex:       hash codes, no duplicate codes (a sorted hash index,
//	                   not a hash table: O(log n) lookup, O(n) insert)
//	- SortValueIndex:  arbitrary sort values, duplicate values allowed but
//	                   duplicate objects not
//
// Consistency contract:
//
//	CompareElems and CompareKey must agree: for every element e with key k,
//	CompareKey(k, e) == 0 and the ordering CompareKey induces must match the
//	one CompareElems induces. The engine does not verify this, a strategy
//	that violates it makes FindNear and FindNearByKey disagree on positions.
//
// Collision policy:
//
//	AddSorted takes an explicit Collision argument. CollisionIgnore keeps the
//	existing element, CollisionReplace overwrites it, CollisionAssert treats
//	the collision as a programmer error. The zero value CollisionUnset is
//	rejected like CollisionAssert.
//
// Failure semantics:
//
//	Nothing in this package returns an error. Lookups return NotFound (-1)
//	or false. Precondition violations (unset collision policy, identity
//	mismatch on a by-reference remove) go through common.Assertf, which logs
//	and in debug mode panics. Raw index access (At, RemoveAt) is unchecked
//	and panics on out-of-range indices like a slice does.
//
// Ownership:
//
//	Facade wraps a collection with add/remove hooks to express the three
//	element ownership policies: plain values, reference counted handles
//	(dereferenced on remove) and owned resources (closed on remove).
//
// Thread Safety:
//
//	Nothing in this package is synchronized. Use coll/locked for a mutex
//	guarded collection, or guard the collection yourself. Indices returned by
//	the Find methods are only valid while no other goroutine can mutate the
//	collection.
//
// Usage Example:
//
//	idx := coll.NewNameIndex(func(u *User) string { return u.Name })
//	idx.Add(&User{Name: "alice"})
//	if u, ok := idx.Get("ALICE"); ok {
//	    // case-insensitive hit
//	}
package coll
