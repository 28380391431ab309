package locked

import (
	"sync"
	"time"

	"github.com/ValentinKolb/dColl/lib/coll"
	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

var log = logger.GetLogger(common.LoggerLocked)

// Option configures a Collection
type Option func(*options)

type options struct {
	registry gometrics.Registry
	prefix   string
	capacity int
}

// WithMetrics records per-operation counters and timers in registry.
// Metric names are prefixed with prefix followed by a dot.
func WithMetrics(registry gometrics.Registry, prefix string) Option {
	return func(o *options) {
		o.registry = registry
		o.prefix = prefix
	}
}

// WithCapacity preallocates room for n elements
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// opMetrics bundles the metrics of one operation
type opMetrics struct {
	hit  gometrics.Counter
	miss gometrics.Counter
	time gometrics.Timer
}

func newOpMetrics(r gometrics.Registry, prefix, op string) *opMetrics {
	name := prefix + "." + op
	return &opMetrics{
		hit:  gometrics.GetOrRegisterCounter(name+".hit", r),
		miss: gometrics.GetOrRegisterCounter(name+".miss", r),
		time: gometrics.GetOrRegisterTimer(name+".time", r),
	}
}

// done records one call that started at start
func (m *opMetrics) done(start time.Time, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.hit.Inc(1)
	} else {
		m.miss.Inc(1)
	}
	m.time.UpdateSince(start)
}

// Collection is a SortedCollection guarded by a sync.RWMutex.
//
// Thread-safety: all methods are thread-safe and can be called concurrently.
type Collection[T any, K any] struct {
	mu sync.RWMutex
	c  *coll.SortedCollection[T, K]

	add, get, remove *opMetrics
}

// New creates an empty Collection ordered by strategy
func New[T any, K any](strategy coll.Strategy[T, K], opts ...Option) *Collection[T, K] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	lc := &Collection[T, K]{c: coll.NewWithCapacity[T, K](strategy, o.capacity)}
	if o.registry != nil {
		lc.add = newOpMetrics(o.registry, o.prefix, "add")
		lc.get = newOpMetrics(o.registry, o.prefix, "get")
		lc.remove = newOpMetrics(o.registry, o.prefix, "remove")
		log.Debugf("metrics enabled for collection %q", o.prefix)
	}
	return lc
}

// Len returns the number of elements
func (lc *Collection[T, K]) Len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.c.Len()
}

// Add inserts elem with the given collision policy.
// Returns true if elem is stored after the call, which includes re-adding an
// identical element. A collision rejected by the policy returns false.
func (lc *Collection[T, K]) Add(elem T, policy coll.Collision) bool {
	start := time.Now()
	lc.mu.Lock()
	ok := lc.c.AddSorted(elem, policy) != coll.NotFound
	lc.mu.Unlock()

	lc.add.done(start, ok)
	return ok
}

// Get returns an element matching key
func (lc *Collection[T, K]) Get(key K) (T, bool) {
	start := time.Now()
	lc.mu.RLock()
	elem, ok := lc.c.Get(key)
	lc.mu.RUnlock()

	lc.get.done(start, ok)
	return elem, ok
}

// Contains reports whether an element matches key
func (lc *Collection[T, K]) Contains(key K) bool {
	_, ok := lc.Get(key)
	return ok
}

// First returns the first element matching key in sort order
func (lc *Collection[T, K]) First(key K) (T, bool) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	var zero T
	i := lc.c.FindFirstForKey(key)
	if i == coll.NotFound {
		return zero, false
	}
	return lc.c.At(i), true
}

// Remove removes an element matching key and returns it
func (lc *Collection[T, K]) Remove(key K) (T, bool) {
	start := time.Now()
	lc.mu.Lock()
	var elem T
	i := lc.c.FindForKey(key)
	ok := i != coll.NotFound
	if ok {
		elem = lc.c.RemoveAt(i)
	}
	lc.mu.Unlock()

	lc.remove.done(start, ok)
	return elem, ok
}

// RemoveIdentical removes candidate, which must be stored under key
func (lc *Collection[T, K]) RemoveIdentical(candidate T, key K) bool {
	start := time.Now()
	lc.mu.Lock()
	ok := lc.c.RemoveByKeyAndIdentity(candidate, key)
	lc.mu.Unlock()

	lc.remove.done(start, ok)
	return ok
}

// Snapshot returns a copy of the elements in sorted order
func (lc *Collection[T, K]) Snapshot() []T {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.c.Items()
}

// Range calls fn for every element in sorted order until fn returns false.
// fn runs under the read lock: it must not modify this collection and must
// not lock the element it is given.
func (lc *Collection[T, K]) Range(fn func(elem T) bool) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	for _, elem := range lc.c.All() {
		if !fn(elem) {
			return
		}
	}
}

// Drain removes all elements and returns them, last element first
func (lc *Collection[T, K]) Drain() []T {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	out := make([]T, 0, lc.c.Len())
	for lc.c.Len() > 0 {
		out = append(out, lc.c.RemoveAt(lc.c.Len()-1))
	}
	return out
}
