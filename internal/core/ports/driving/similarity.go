package driving

import (
	"context"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// SimilarityService ranks corpus leaflets against a batch of new leaflets.
type SimilarityService interface {
	// RankSimilar returns one group per new document, in input order.
	RankSimilar(ctx context.Context, docs []domain.CleanedDocument) ([]domain.SimilarityGroup, error)
}
