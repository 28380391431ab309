// Package cmd implements the dcoll command-line interface. It provides a
// hierarchical command structure to benchmark the collection variants and to
// exercise the dependency registry.
//
// The package is organized into several subpackages:
//
//   - bench: Benchmarks for the collection variants and singleton creation
//   - registry: Teardown simulation and metrics export for the dependency registry
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set as environment variables with the DCOLL_ prefix
// (e.g. DCOLL_LOG_LEVEL=debug), or in a .env / .env.local file.
//
// See dcoll -help for a list of all commands.
package cmd
