package driven

import (
	"time"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// DocumentStore holds the cleaned corpus for the duration of one run.
// It is ordered by insertion and becomes read-only once frozen.
type DocumentStore interface {
	// Add appends a document. A document with the same filename
	// replaces the earlier one, which moves to the end.
	// Returns domain.ErrStoreFrozen after Freeze.
	Add(doc domain.CleanedDocument) error

	// All returns the documents in load order.
	All() []domain.CleanedDocument

	// Get returns the document at a position.
	// Returns domain.ErrNotFound when out of range.
	Get(position int) (domain.CleanedDocument, error)

	// Len returns the number of documents.
	Len() int

	// Freeze makes the store read-only.
	Freeze()

	// Frozen reports whether Freeze has been called.
	Frozen() bool

	// CorpusEntries returns the lexical search view in load order,
	// stamped with the time returned by now.
	CorpusEntries(now func() time.Time) []domain.CorpusEntry
}
