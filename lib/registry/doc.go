// Package registry orders the teardown of lazily created, process-wide objects.
//
// Objects like caches, pools or clients are usually created on first use, by
// whichever code path needs them first. Their creation order is therefore not
// under anybody's control, and neither is a safe destruction order. The
// Registry records every such object at the moment it is fully constructed and
// tears them down in reverse registration order: an object that needed another
// one during construction was registered after it and is destroyed before it.
//
// Core Concepts:
//
//   - Entry: an object whose teardown is ordered by the registry. Types embed
//     Base and override Destroy, IsReferenced or ReleaseModuleChildren.
//   - Module: a unit of code that may go away before the process exits, such as
//     a plugin. Entries can name their owning module.
//   - Singleton: GetOrCreate creates at most one instance per type and registers
//     it after construction.
//
// Entry Lifecycle:
//
//	Unregistered -> Registered -> ReleasedByModule | ReleasedAtExit
//
//	A released entry never goes back to Registered. Unregister moves a
//	registered entry back to Unregistered, for owners that tear an entry down
//	themselves.
//
// Teardown:
//
//	ReleaseModule(m) first calls ReleaseModuleChildren(m) on every entry not
//	owned by m, so they can drop references into m. It then removes the
//	entries of m one at a time, most recent first. An entry that reports
//	IsReferenced is only removed; all others are destroyed.
//
//	Close calls ReleaseModule(nil), which removes every entry, and closes the
//	registry. A closed registry refuses registrations, so objects created
//	during or after shutdown are never added to a list nobody drains.
//
// Thread Safety:
//
//	All registry mutation is serialized by one mutex. Hooks run without that
//	mutex held and may call back into the registry; teardown re-reads the end
//	of the list after every step. Singleton creation is serialized per type,
//	which lets a constructor request its dependencies through GetOrCreate.
//
// Metrics:
//
//	Every registry owns a VictoriaMetrics set with counters for registered,
//	rejected, released and destroyed entries and created singletons, plus a
//	gauge of the current entry count. WritePrometheus exports it.
//
// Usage Example:
//
//	type Pool struct {
//	    registry.Base
//	    conns []net.Conn
//	}
//
//	func (p *Pool) Destroy() {
//	    for _, c := range p.conns {
//	        _ = c.Close()
//	    }
//	}
//
//	pool := registry.GetOrCreate(registry.Default(), func() *Pool {
//	    return &Pool{}
//	})
//
//	// at process exit
//	registry.Shutdown()
package registry
