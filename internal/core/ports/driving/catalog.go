package driving

import (
	"context"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// CatalogService owns the loaded corpus and both retrieval engines.
type CatalogService interface {
	LexicalSearchService
	SimilarityService

	// Reload rebuilds the corpus from its folder. Readers see either the
	// previous corpus or the new one, never a mix.
	Reload(ctx context.Context) (*domain.ProcessingReport, error)

	// LoadDocuments reads a folder of new leaflets with the corpus pipeline
	// without adding them to the corpus.
	LoadDocuments(ctx context.Context, dir string) ([]domain.CleanedDocument, *domain.ProcessingReport, error)

	// Report returns the report of the last corpus load, or nil before the first.
	Report() *domain.ProcessingReport
}
