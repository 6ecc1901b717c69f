// Package domain defines the core business entities for valueindex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table, Column: Schema entries enumerated from a database
//   - Record: A {id, contents} unit staged for the search engine
//   - Corpus: The ordered records extracted from one database
//   - DatabaseOutcome, RunReport: Best-effort results of an indexing run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
