package registry

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/dColl/lib/common"
)

// --------------------------------------------------------------------------
// Singleton slots
// --------------------------------------------------------------------------

// slot holds the singleton of one type. mu serializes creation of that type
// only; instance is read without locking on the fast path.
type slot struct {
	mu       sync.Mutex
	instance atomic.Pointer[entryBox]
}

type entryBox struct {
	entry Entry
}

// reset forgets e if it is the cached instance
func (s *slot) reset(e Entry) {
	if box := s.instance.Load(); box != nil && box.entry == e {
		s.instance.CompareAndSwap(box, nil)
	}
}

// GetOrCreate returns the singleton of type T in r, creating it with create
// on first use.
//
// The instance is fully constructed before it is registered, and it is only
// published to other callers after registration. Concurrent callers for the
// same type block until the first one is done and then share its instance.
//
// create may itself call GetOrCreate for other types. Those dependencies are
// registered first and are therefore torn down after the instance that needs
// them. create must not request its own type, that deadlocks.
//
// Once r is closed, create runs on every call and the instance is returned
// without being registered or cached; the caller owns it.
//
// Thread-safety: This function is thread-safe and can be called concurrently.
func GetOrCreate[T Entry](r *Registry, create func() T) T {
	typ := reflect.TypeFor[T]()
	s, _ := r.slots.LoadOrCompute(typ, func() *slot { return &slot{} })

	if box := s.instance.Load(); box != nil {
		return box.entry.(T)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if box := s.instance.Load(); box != nil {
		return box.entry.(T)
	}

	instance := create()
	if !common.Assertf(!isNil(instance), "constructor of %s returned nil", typ) {
		return instance
	}
	r.metrics.created.Inc()

	// register publishes the instance in s under the registry lock, so a
	// concurrent teardown either sees both or neither
	if !r.register(instance, s) {
		log.Warningf("[%s] %s created while the registry is closed, instance is not tracked", r.name, typ)
	}
	return instance
}

// Lookup returns the singleton of type T if it exists
func Lookup[T Entry](r *Registry) (T, bool) {
	var zero T
	s, ok := r.slots.Load(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	box := s.instance.Load()
	if box == nil {
		return zero, false
	}
	return box.entry.(T), true
}

// --------------------------------------------------------------------------
// Process-wide registry
// --------------------------------------------------------------------------

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
// It depends on nothing else, so it is safe to call from any constructor.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(WithName("default"))
	})
	return defaultRegistry
}

// Shutdown closes the process-wide registry. Call it once at process exit,
// e.g. deferred in main.
func Shutdown() {
	Default().Close()
}
