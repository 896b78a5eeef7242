// Package domain defines the core entities of the virtual teaching assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retrievable slice of a forum post or documentation page
//   - Hit: A chunk scored against a query vector
//   - EnrichedPassage: A hit widened with its neighbouring chunks
//   - Answer: The synthesised answer and its validated citations
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
