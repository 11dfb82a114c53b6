// Package domain defines the core entities for sitesource.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Attributes: An ordered key-value mapping decoded from metadata
//   - ParsedDocument: Attributes plus content for one source item
//   - FilePair: The content and metadata files that make up one item
//   - Item: A parsed document enriched with filesystem data and checksums
//   - ChangeEvent: A signal that something changed under a watched root
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
