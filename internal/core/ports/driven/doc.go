// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PageExtractor: Reads per-page text from leaflet files
//   - Analyzer: Tokenises and lemmatises text
//   - DocumentStore: Ordered in-memory corpus
//   - ConfigStore: Application configuration
//   - VocabularySource: Replacement table and stop words
//   - TextStage: One step of a field cleaning pipeline
//
// # Optional Interfaces
//
// These are only needed for similarity ranking:
//
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Nearest-neighbour search over embeddings
//   - CorpusWatcher: Signals corpus folder changes for long-running servers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
