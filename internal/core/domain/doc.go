// Package domain defines the core business entities for chpl-search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: page text read from one leaflet file
//   - SegmentedDocument: the three raw section spans of a leaflet
//   - CleanedDocument: the per-field cleaned form kept in the corpus
//   - CorpusEntry: the title/text view used by lexical search
//   - RankedResult: one scored hit returned by either retrieval engine
//   - Vocabulary: replacement table and per-field stop words
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
