package driving

import (
	"context"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// CorpusService reads a folder of leaflets into a document store.
type CorpusService interface {
	// Load extracts, segments and cleans every supported file in dir,
	// adds the results to store in filename order and freezes it.
	// Per-file failures are recorded in the report, not returned.
	Load(ctx context.Context, dir string, store driven.DocumentStore) (*domain.ProcessingReport, error)
}
