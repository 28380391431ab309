package coll

import (
	"cmp"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handle is a reference counted test element
type handle struct {
	RefCount
	id int
}

// resource is a closable test element
type resource struct {
	id     int
	closed int
	err    error
	onDone func(*resource)
}

func (r *resource) Close() error {
	r.closed++
	if r.onDone != nil {
		r.onDone(r)
	}
	return r.err
}

func handleStrategy() StrategyFuncs[*handle, int] {
	return StrategyFuncs[*handle, int]{
		Elems: func(a, b *handle) int { return cmp.Compare(a.id, b.id) },
		Key:   func(key int, e *handle) int { return cmp.Compare(key, e.id) },
		Same:  func(a, b *handle) bool { return a == b },
	}
}

func resourceStrategy() StrategyFuncs[*resource, int] {
	return StrategyFuncs[*resource, int]{
		Elems: func(a, b *resource) int { return cmp.Compare(a.id, b.id) },
		Key:   func(key int, e *resource) int { return cmp.Compare(key, e.id) },
		Same:  func(a, b *resource) bool { return a == b },
	}
}

func TestRefFacadeDereferencesOnRemove(t *testing.T) {
	f := NewRefFacade[*handle, int](handleStrategy())

	h1, h2 := &handle{id: 1}, &handle{id: 2}
	require.NotEqual(t, NotFound, f.AddSorted(h1, CollisionAssert))
	require.NotEqual(t, NotFound, f.AddSorted(h2, CollisionAssert))
	assert.EqualValues(t, 1, h1.Refs())

	// re-adding the same handle takes no second reference
	f.AddSorted(h1, CollisionAssert)
	assert.EqualValues(t, 1, h1.Refs())

	require.True(t, f.RemoveByKey(1))
	assert.EqualValues(t, 0, h1.Refs())
	assert.EqualValues(t, 1, h2.Refs())
	assert.Equal(t, 1, f.Len())
}

func TestRefFacadeReplaceReleasesOld(t *testing.T) {
	f := NewRefFacade[*handle, int](handleStrategy())

	zeroed := false
	old := &handle{id: 7}
	old.OnZero = func() { zeroed = true }
	f.AddSorted(old, CollisionAssert)

	repl := &handle{id: 7}
	idx := f.AddSorted(repl, CollisionReplace)
	require.Equal(t, 0, idx)

	assert.True(t, zeroed, "replaced handle should drop to zero references")
	assert.EqualValues(t, 1, repl.Refs())

	got, ok := f.Get(7)
	require.True(t, ok)
	assert.Same(t, repl, got)
}

func TestRefFacadeIgnoredInsertTakesNoReference(t *testing.T) {
	f := NewRefFacade[*handle, int](handleStrategy())
	f.AddSorted(&handle{id: 3}, CollisionAssert)

	dropped := &handle{id: 3}
	assert.Equal(t, NotFound, f.AddSorted(dropped, CollisionIgnore))
	assert.EqualValues(t, 0, dropped.Refs())
}

func TestOwnedFacadeClosesOnRemove(t *testing.T) {
	f := NewOwnedFacade[*resource, int](resourceStrategy())

	r1 := &resource{id: 1}
	r2 := &resource{id: 2, err: errors.New("already closed")}
	f.AddSorted(r1, CollisionAssert)
	f.AddSorted(r2, CollisionAssert)

	require.True(t, f.RemoveByKeyAndIdentity(r1, 1))
	assert.Equal(t, 1, r1.closed)
	assert.Equal(t, 0, r2.closed)

	// close errors are logged, the element is removed anyway
	f.RemoveAt(0)
	assert.Equal(t, 1, r2.closed)
	assert.Equal(t, 0, f.Len())
}

func TestDisposeAllToleratesReentrantRemoval(t *testing.T) {
	f := NewOwnedFacade[*resource, int](resourceStrategy())

	var order []int
	res := make([]*resource, 5)
	for i := range res {
		res[i] = &resource{id: i}
		res[i].onDone = func(r *resource) { order = append(order, r.id) }
		f.AddSorted(res[i], CollisionAssert)
	}

	// closing 4 removes 1 from the facade
	res[4].onDone = func(r *resource) {
		order = append(order, r.id)
		f.RemoveByKey(1)
	}

	f.DisposeAll()

	assert.Equal(t, 0, f.Len())
	assert.Equal(t, []int{4, 1, 3, 2, 0}, order)
	for _, r := range res {
		assert.Equal(t, 1, r.closed, "resource %d closed %d times", r.id, r.closed)
	}
}

func TestPlainFacade(t *testing.T) {
	f := NewFacade[int, int](OrderedStrategy[int]{})
	f.AddSorted(3, CollisionIgnore)
	f.AddSorted(1, CollisionIgnore)

	assert.Equal(t, []int{1, 3}, f.Collection().Items())
	assert.Equal(t, 1, f.FindForKey(3))
	f.DisposeAll()
	assert.Equal(t, 0, f.Len())
}
