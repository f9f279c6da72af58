// Package domain defines the core business entities for Willa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A MARC bibliographic record as fetched from the catalogue
//   - NormalizedFields: The fixed-key intermediate form of a RawRecord
//   - DocumentMetadata: Semantic metadata attached to every chunk
//   - Document and Chunk: Extracted text and its windowed fragments
//   - Message and ThreadState: Conversation history for one chat thread
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
