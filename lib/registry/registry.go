package registry

import (
	"cmp"
	"reflect"
	"sync"

	"github.com/ValentinKolb/dColl/lib/coll"
	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger(common.LoggerRegistry)

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// record is one registered entry. seq is the registration sequence number
// and defines the teardown order.
type record struct {
	seq    uint64
	entry  Entry
	module *Module
	slot   *slot // singleton slot the entry was created for, if any
}

// recordStrategy orders records by sequence number
type recordStrategy struct{}

func (recordStrategy) CompareElems(a, b *record) int        { return cmp.Compare(a.seq, b.seq) }
func (recordStrategy) CompareKey(seq uint64, r *record) int { return cmp.Compare(seq, r.seq) }
func (recordStrategy) Identical(a, b *record) bool          { return a == b }

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Option configures a Registry
type Option func(*Registry)

// WithName sets the name used in log lines and metric labels
func WithName(name string) Option {
	return func(r *Registry) { r.name = name }
}

// Registry orders the teardown of dependently created objects.
// Entries are destroyed in reverse registration order, either all at once
// (Close, ReleaseModule(nil)) or scoped to one module (ReleaseModule(m)).
//
// Hooks (Destroy, ReleaseModuleChildren, IsReferenced) are always called
// without the registry lock held, so they may call back into the registry.
//
// Thread-safety: all methods are thread-safe and can be called concurrently.
type Registry struct {
	name string

	mu      sync.Mutex
	records *coll.SortedCollection[*record, uint64]
	byEntry map[Entry]*record
	nextSeq uint64
	closing bool
	closed  bool

	slots   *xsync.MapOf[reflect.Type, *slot]
	metrics *registryMetrics
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		name:    "registry",
		records: coll.New[*record, uint64](recordStrategy{}),
		byEntry: make(map[Entry]*record),
		slots:   xsync.NewMapOf[reflect.Type, *slot](),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metrics = newRegistryMetrics(r.name, func() float64 { return float64(r.Len()) })
	return r
}

// Name returns the registry name
func (r *Registry) Name() string { return r.name }

// Len returns the number of registered entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records.Len()
}

// Closed reports whether Close has started. A closed registry refuses registrations.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closing || r.closed
}

// Entries returns the registered entries in registration order
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, r.records.Len())
	for _, rec := range r.records.All() {
		out = append(out, rec.entry)
	}
	return out
}

// Contains reports whether e is registered
func (r *Registry) Contains(e Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEntry[e]
	return ok
}

// Register appends e to the teardown list and returns true.
//
// Registration is refused (false) when the registry is closing or closed,
// when e is nil, already registered or already released. The last three
// are programmer errors and raise an assertion.
func (r *Registry) Register(e Entry) bool {
	return r.register(e, nil)
}

func (r *Registry) register(e Entry, s *slot) bool {
	if !common.Assertf(!isNil(e), "nil entry %T registered", e) {
		r.metrics.rejected.Inc()
		return false
	}

	module := e.Module()

	r.mu.Lock()
	if r.closing || r.closed {
		r.mu.Unlock()
		r.metrics.rejected.Inc()
		log.Debugf("[%s] registry is closed, %T not registered", r.name, e)
		return false
	}
	if _, dup := r.byEntry[e]; dup {
		r.mu.Unlock()
		r.metrics.rejected.Inc()
		common.Assertf(false, "entry %T registered twice", e)
		return false
	}
	if state := e.base().State(); state.released() {
		r.mu.Unlock()
		r.metrics.rejected.Inc()
		common.Assertf(false, "entry %T registered again after it was released (%s)", e, state)
		return false
	}

	r.nextSeq++
	rec := &record{seq: r.nextSeq, entry: e, module: module, slot: s}
	r.records.AddPresorted(r.records.Len()-1, coll.Greater, rec)
	r.byEntry[e] = rec
	if s != nil {
		s.instance.Store(&entryBox{entry: e})
	}
	e.base().setState(StateRegistered)
	r.mu.Unlock()

	r.metrics.registered.Inc()
	log.Debugf("[%s] registered %T (module %s, seq %d)", r.name, e, module, rec.seq)
	return true
}

// isNil reports whether e is nil or a nil pointer wrapped in the interface
func isNil(e Entry) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Unregister removes e from the teardown list without destroying it.
// Entries whose owner tears them down early call this. Returns false if
// e was not registered.
func (r *Registry) Unregister(e Entry) bool {
	if e == nil {
		return false
	}

	r.mu.Lock()
	rec, ok := r.byEntry[e]
	if ok {
		r.removeLocked(rec)
		e.base().setState(StateUnregistered)
	}
	r.mu.Unlock()

	if ok {
		log.Debugf("[%s] unregistered %T (seq %d)", r.name, e, rec.seq)
	}
	return ok
}

// removeLocked drops rec from the list and its singleton slot.
// r.mu must be held.
func (r *Registry) removeLocked(rec *record) {
	r.records.RemoveByKeyAndIdentity(rec, rec.seq)
	delete(r.byEntry, rec.entry)
	if rec.slot != nil {
		rec.slot.reset(rec.entry)
	}
}

// --------------------------------------------------------------------------
// Teardown
// --------------------------------------------------------------------------

// ReleaseModule tears down the entries owned by m, most recently registered
// first. Before the first entry of m is destroyed, every other entry is
// notified through ReleaseModuleChildren(m), also in reverse registration order.
//
// With m == nil every entry is torn down; nobody is notified.
//
// Each entry is unregistered before its hooks run. Referenced entries are
// only unregistered, all others are destroyed. After every step the scan
// restarts at the current end of the list, so hooks may register or
// unregister other entries.
func (r *Registry) ReleaseModule(m *Module) {
	final := StateReleasedByModule
	if m == nil {
		final = StateReleasedAtExit
	} else {
		r.notifyDependents(m)
	}

	released := 0
	for {
		r.mu.Lock()
		rec := r.lastOwnedLocked(m)
		if rec == nil {
			r.mu.Unlock()
			break
		}
		r.removeLocked(rec)
		rec.entry.base().setState(final)
		r.mu.Unlock()

		released++
		r.metrics.released.Inc()

		if rec.entry.IsReferenced() {
			log.Debugf("[%s] %T is still referenced, released without destroy", r.name, rec.entry)
			continue
		}
		rec.entry.Destroy()
		r.metrics.destroyed.Inc()
	}

	log.Infof("[%s] released %d entries of module %s", r.name, released, m)
}

// notifyDependents calls ReleaseModuleChildren(m) on every entry not owned by m.
// The owner of an entry is the module it reported when it was registered.
func (r *Registry) notifyDependents(m *Module) {
	r.mu.Lock()
	var dependents []Entry
	for i := r.records.Len() - 1; i >= 0; i-- {
		if rec := r.records.At(i); rec.module != m {
			dependents = append(dependents, rec.entry)
		}
	}
	r.mu.Unlock()

	for _, e := range dependents {
		// a previous hook may have torn e down already
		if !r.Contains(e) {
			continue
		}
		e.ReleaseModuleChildren(m)
	}
}

// lastOwnedLocked returns the most recently registered record owned by m,
// or the last record at all for m == nil. r.mu must be held.
func (r *Registry) lastOwnedLocked(m *Module) *record {
	for i := r.records.Len() - 1; i >= 0; i-- {
		rec := r.records.At(i)
		if m == nil || rec.module == m {
			return rec
		}
	}
	return nil
}

// Close tears down every entry in reverse registration order and closes the
// registry for good. Registrations during and after Close are refused.
// Calling Close more than once is a no-op.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closing || r.closed {
		r.mu.Unlock()
		return
	}
	r.closing = true
	r.mu.Unlock()

	r.ReleaseModule(nil)

	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	log.Infof("[%s] closed", r.name)
}
