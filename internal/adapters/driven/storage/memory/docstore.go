package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Documents keep their insertion order; positions are the handle used by
// the retrieval engines to map index results back to documents.
type DocumentStore struct {
	mu        sync.RWMutex
	documents []domain.CleanedDocument
	frozen    bool
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Add appends a document. An earlier document with the same filename is
// removed first, so the latest build of a filename wins.
func (s *DocumentStore) Add(doc domain.CleanedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return fmt.Errorf("add %s: %w", doc.Filename, domain.ErrStoreFrozen)
	}

	for i, existing := range s.documents {
		if existing.Filename == doc.Filename {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			break
		}
	}
	s.documents = append(s.documents, doc)
	return nil
}

// All returns a copy of the documents in load order.
func (s *DocumentStore) All() []domain.CleanedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CleanedDocument, len(s.documents))
	copy(out, s.documents)
	return out
}

// Get returns the document at a position.
func (s *DocumentStore) Get(position int) (domain.CleanedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if position < 0 || position >= len(s.documents) {
		return domain.CleanedDocument{}, fmt.Errorf("position %d: %w", position, domain.ErrNotFound)
	}
	return s.documents[position], nil
}

// Len returns the number of documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Freeze makes the store read-only.
func (s *DocumentStore) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *DocumentStore) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// CorpusEntries returns the lexical search view in load order.
func (s *DocumentStore) CorpusEntries(now func() time.Time) []domain.CorpusEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if now == nil {
		now = time.Now
	}
	entries := make([]domain.CorpusEntry, len(s.documents))
	for i, doc := range s.documents {
		entries[i] = doc.Entry(now())
	}
	return entries
}
