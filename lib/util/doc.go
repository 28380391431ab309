// Package util provides small helpers shared by the collection and registry
// packages.
//
// The package contains:
//   - functions: seeded FNV-1a string hashing used to derive hash-code keys,
//     and seed generation
//   - statistics: a summary (min, max, mean, standard deviation) over float64
//     samples, used to report benchmark runs
//
// None of the helpers keep state, so they are safe for concurrent use.
package util
