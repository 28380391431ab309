package registry

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Base
	ev *events
}

func (c *config) Destroy() { c.ev.add("destroy config") }

type service struct {
	Base
	cfg *config
	ev  *events
}

func (s *service) Destroy() { s.ev.add("destroy service") }

type counter struct {
	Base
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New()
	var created atomic.Int32

	instances := make([]*counter, 64)
	var g errgroup.Group
	for i := range instances {
		g.Go(func() error {
			instances[i] = GetOrCreate(r, func() *counter {
				created.Add(1)
				return &counter{}
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, created.Load())
	for _, inst := range instances {
		assert.Same(t, instances[0], inst)
	}
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, StateRegistered, instances[0].State())

	found, ok := Lookup[*counter](r)
	require.True(t, ok)
	assert.Same(t, instances[0], found)
}

func TestGetOrCreateNestedDependencies(t *testing.T) {
	ev := &events{}
	r := New()

	newConfig := func() *config { return &config{ev: ev} }
	svc := GetOrCreate(r, func() *service {
		return &service{cfg: GetOrCreate(r, newConfig), ev: ev}
	})

	require.NotNil(t, svc.cfg)
	assert.Same(t, svc.cfg, GetOrCreate(r, newConfig))

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, svc.cfg, entries[0])
	assert.Same(t, svc, entries[1])

	r.Close()
	assert.Equal(t, []string{"destroy service", "destroy config"}, ev.list())
}

func TestGetOrCreateAfterUnregister(t *testing.T) {
	r := New()
	newCounter := func() *counter { return &counter{} }

	first := GetOrCreate(r, newCounter)
	require.True(t, r.Unregister(first))

	_, ok := Lookup[*counter](r)
	assert.False(t, ok)

	second := GetOrCreate(r, newCounter)
	assert.NotSame(t, first, second)
	assert.True(t, r.Contains(second))
}

func TestGetOrCreateAfterModuleRelease(t *testing.T) {
	ev := &events{}
	r := New()
	mod := NewModule("plugin")

	cfg := GetOrCreate(r, func() *config { return &config{Base: Base{Owner: mod}, ev: ev} })
	r.ReleaseModule(mod)

	assert.Equal(t, StateReleasedByModule, cfg.State())
	_, ok := Lookup[*config](r)
	assert.False(t, ok, "released singleton must not stay cached")
}

func TestGetOrCreateOnClosedRegistry(t *testing.T) {
	r := New()
	r.Close()

	var created int
	newCounter := func() *counter {
		created++
		return &counter{}
	}

	a := GetOrCreate(r, newCounter)
	b := GetOrCreate(r, newCounter)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, StateUnregistered, a.State())
}

func TestGetOrCreateNilConstructor(t *testing.T) {
	withDebugAsserts(t, false)
	r := New()

	var got *counter
	assert.NotPanics(t, func() {
		got = GetOrCreate(r, func() *counter { return nil })
	})
	assert.Nil(t, got)
	assert.Equal(t, 0, r.Len())

	_, ok := Lookup[*counter](r)
	assert.False(t, ok)

	// a later constructor still gets its chance
	c := GetOrCreate(r, func() *counter { return &counter{} })
	require.NotNil(t, c)
	assert.True(t, r.Contains(c))
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Same(t, r, Default())
	assert.Equal(t, "default", r.Name())

	GetOrCreate(r, func() *counter { return &counter{} })
	Shutdown()

	assert.True(t, Default().Closed())
	assert.Equal(t, 0, Default().Len())
}
