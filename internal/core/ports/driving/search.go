package driving

import (
	"context"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// LexicalSearchService ranks corpus leaflets against a free-text indication query.
type LexicalSearchService interface {
	// Search returns every corpus document scored against the query,
	// in descending score order. It never filters by score.
	Search(ctx context.Context, query string) ([]domain.RankedResult, error)
}
