package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, analyzer or stage type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStoreFrozen indicates a write to the document store after retrieval began.
	ErrStoreFrozen = errors.New("document store is frozen")

	// ErrEmptyCorpus indicates a retrieval model was built over no documents.
	// Services turn it into an empty result.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Similarity ranking is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAnalyzerUnavailable indicates the linguistic analyzer could not be reached.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

	// ErrExtractorUnavailable indicates no page extractor handles a file type.
	ErrExtractorUnavailable = errors.New("page extractor unavailable")

	// ErrDimensionMismatch indicates a vector does not match the index dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
