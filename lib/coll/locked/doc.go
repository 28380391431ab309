// Package locked provides a mutex-guarded wrapper around a coll.SortedCollection.
//
// The sorted collections of package coll are not synchronized. Code that shares
// a collection between goroutines wraps it in a locked.Collection, which takes
// a read or write lock around every public operation.
//
// Core Rules:
//
//   - Operations return elements, never indices. An index is only valid while
//     the lock is held and would be stale the moment the call returns.
//   - Range calls fn while holding the read lock. fn must not call back into
//     the same Collection for writing and must not acquire locks owned by the
//     visited elements, otherwise lock order inversions become possible.
//   - Elements themselves are not protected. If elements are mutable, they need
//     their own synchronization.
//
// Instrumentation:
//
//	WithMetrics attaches an rcrowley/go-metrics registry. Every operation then
//	updates a counter (hits and misses for lookups) and a timer under the given
//	prefix, e.g. "names.get.hit", "names.add.time".
//
// Usage Example:
//
//	names := locked.New[*Service, string](strategy,
//	    locked.WithMetrics(metrics.DefaultRegistry, "names"))
//
//	names.Add(svc, coll.CollisionReplace)
//	if s, ok := names.Get("auth"); ok {
//	    // use s
//	}
package locked
