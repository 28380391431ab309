package registry

import "sync/atomic"

// --------------------------------------------------------------------------
// Module
// --------------------------------------------------------------------------

// Module identifies a unit of code whose objects may be released before the
// registry shuts down (a plugin, a subsystem with its own lifetime).
// Modules compare by identity: two calls to NewModule with the same name
// yield different modules.
type Module struct {
	name string
}

// NewModule creates a new module handle
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module name. The nil module is reported as "<none>".
func (m *Module) Name() string {
	if m == nil {
		return "<none>"
	}
	return m.name
}

func (m *Module) String() string { return m.Name() }

// --------------------------------------------------------------------------
// Entry state
// --------------------------------------------------------------------------

// State is the lifecycle state of an entry
type State int32

const (
	StateUnregistered     State = iota // not (or no longer) known to a registry
	StateRegistered                    // in the teardown list
	StateReleasedByModule              // removed by ReleaseModule for its owning module
	StateReleasedAtExit                // removed by the full teardown
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "Unregistered"
	case StateRegistered:
		return "Registered"
	case StateReleasedByModule:
		return "ReleasedByModule"
	case StateReleasedAtExit:
		return "ReleasedAtExit"
	default:
		return "Unknown"
	}
}

// released reports whether s is one of the final states
func (s State) released() bool {
	return s == StateReleasedByModule || s == StateReleasedAtExit
}

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// Entry is an object whose teardown is ordered by a Registry.
// Implementations embed Base and override the hooks they need.
//
// Entries are compared by identity, so they must be pointers.
type Entry interface {
	// Module returns the owning module, or nil if the entry belongs to no module
	Module() *Module

	// IsReferenced reports whether something outside the registry still owns
	// the entry. Referenced entries are unregistered on release but not destroyed.
	IsReferenced() bool

	// ReleaseModuleChildren is called on entries that are NOT owned by m
	// before the entries of m are destroyed. The entry drops every reference
	// it holds to objects of m.
	ReleaseModuleChildren(m *Module)

	// Destroy tears the entry down. It runs without any registry lock held
	// and may register or unregister other entries.
	Destroy()

	base() *Base
}

// Base is the embeddable default implementation of Entry.
// It is not referenced, ignores module releases and has nothing to destroy.
//
//	type Cache struct {
//	    registry.Base
//	    data map[string][]byte
//	}
//
//	c := &Cache{Base: registry.Base{Owner: pluginModule}}
type Base struct {
	// Owner is the owning module; nil for process-wide objects
	Owner *Module

	state atomic.Int32
}

func (b *Base) base() *Base { return b }

// Module returns Owner
func (b *Base) Module() *Module { return b.Owner }

// IsReferenced returns false
func (b *Base) IsReferenced() bool { return false }

// ReleaseModuleChildren does nothing
func (b *Base) ReleaseModuleChildren(*Module) {}

// Destroy does nothing
func (b *Base) Destroy() {}

// State returns the lifecycle state of the entry
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (b *Base) State() State { return State(b.state.Load()) }

func (b *Base) setState(s State) { b.state.Store(int32(s)) }
