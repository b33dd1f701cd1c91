package driven

import "github.com/custodia-labs/chpl-search/internal/core/domain"

// VocabularySource loads the normalisation and cleaning vocabulary.
type VocabularySource interface {
	// Load returns the vocabulary.
	Load() (domain.Vocabulary, error)
}
