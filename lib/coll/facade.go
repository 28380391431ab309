package coll

import (
	"io"
	"sync/atomic"

	"github.com/ValentinKolb/dColl/lib/common"
)

// --------------------------------------------------------------------------
// Reference counting
// --------------------------------------------------------------------------

// RefCounted is implemented by handles whose lifetime is governed by a reference count
type RefCounted interface {
	// AddRef takes a reference and returns the new count
	AddRef() int32
	// Release drops a reference and returns the new count
	Release() int32
}

// RefCount is an embeddable atomic reference counter.
// OnZero, if set, runs once when the count drops to zero.
type RefCount struct {
	refs   atomic.Int32
	OnZero func()
}

// AddRef takes a reference and returns the new count
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (r *RefCount) AddRef() int32 {
	return r.refs.Add(1)
}

// Release drops a reference and returns the new count
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (r *RefCount) Release() int32 {
	n := r.refs.Add(-1)
	if n == 0 && r.OnZero != nil {
		r.OnZero()
	}
	common.Assertf(n >= 0, "reference count dropped below zero")
	return n
}

// Refs returns the current count
func (r *RefCount) Refs() int32 {
	return r.refs.Load()
}

// --------------------------------------------------------------------------
// Facade
// --------------------------------------------------------------------------

// Facade wraps a SortedCollection and applies an ownership policy to the
// elements it stores: onAdd runs when an element enters the collection,
// onRemove when it leaves it (remove, replace, dispose).
//
// Thread-safety: Facade is not synchronized.
type Facade[T any, K any] struct {
	c        *SortedCollection[T, K]
	onAdd    func(T)
	onRemove func(T)
}

// NewFacade creates a facade without ownership: removing an element only forgets it
func NewFacade[T any, K any](strategy Strategy[T, K]) *Facade[T, K] {
	return &Facade[T, K]{c: New[T, K](strategy)}
}

// NewRefFacade creates a facade over reference counted handles.
// The facade takes a reference on insert and releases it on remove.
func NewRefFacade[T RefCounted, K any](strategy Strategy[T, K]) *Facade[T, K] {
	return &Facade[T, K]{
		c:        New[T, K](strategy),
		onAdd:    func(e T) { e.AddRef() },
		onRemove: func(e T) { e.Release() },
	}
}

// NewOwnedFacade creates a facade that owns its elements.
// Removed elements are closed; close errors are logged.
func NewOwnedFacade[T io.Closer, K any](strategy Strategy[T, K]) *Facade[T, K] {
	return &Facade[T, K]{
		c: New[T, K](strategy),
		onRemove: func(e T) {
			if err := e.Close(); err != nil {
				log.Warningf("closing removed element: %v", err)
			}
		},
	}
}

func (f *Facade[T, K]) added(e T) {
	if f.onAdd != nil {
		f.onAdd(e)
	}
}

func (f *Facade[T, K]) removed(e T) {
	if f.onRemove != nil {
		f.onRemove(e)
	}
}

// Collection exposes the wrapped collection for read access.
// Mutating it directly bypasses the ownership policy.
func (f *Facade[T, K]) Collection() *SortedCollection[T, K] { return f.c }

// Len returns the number of elements
func (f *Facade[T, K]) Len() int { return f.c.Len() }

// At returns the element at index i
func (f *Facade[T, K]) At(i int) T { return f.c.At(i) }

// Get returns the element matching key
func (f *Facade[T, K]) Get(key K) (T, bool) { return f.c.Get(key) }

// FindForKey returns the index of an element matching key, or NotFound
func (f *Facade[T, K]) FindForKey(key K) int { return f.c.FindForKey(key) }

// AddSorted inserts elem like SortedCollection.AddSorted. The facade takes
// ownership of elem only if it was stored; a replaced element is released.
func (f *Facade[T, K]) AddSorted(elem T, policy Collision) int {
	i, res := f.c.FindNear(elem)
	if res != Equal {
		f.added(elem)
		return f.c.AddPresorted(i, res, elem)
	}
	if f.c.strategy.Identical(f.c.At(i), elem) {
		return i
	}
	if policy != CollisionReplace {
		return f.c.AddSorted(elem, policy)
	}
	f.added(elem)
	f.removed(f.c.replaceAt(i, elem))
	return i
}

// RemoveAt removes the element at index i and releases it
func (f *Facade[T, K]) RemoveAt(i int) {
	f.removed(f.c.RemoveAt(i))
}

// RemoveByKey removes an element matching key and releases it
func (f *Facade[T, K]) RemoveByKey(key K) bool {
	i := f.c.FindForKey(key)
	if i == NotFound {
		return false
	}
	f.RemoveAt(i)
	return true
}

// RemoveByKeyAndIdentity removes candidate stored under key and releases it
func (f *Facade[T, K]) RemoveByKeyAndIdentity(candidate T, key K) bool {
	i := f.c.findIdentity(candidate, key)
	if i == NotFound {
		return false
	}
	f.RemoveAt(i)
	return true
}

// DisposeAll removes and releases every element, last element first.
// Each step pops the current last element before releasing it, so release
// hooks may add or remove elements of this facade.
func (f *Facade[T, K]) DisposeAll() {
	for f.c.Len() > 0 {
		f.removed(f.c.RemoveAt(f.c.Len() - 1))
	}
}
