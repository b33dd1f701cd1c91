package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driving.CatalogService = (*Catalog)(nil)

// CatalogConfig wires a Catalog.
type CatalogConfig struct {
	// Dir is the corpus folder.
	Dir string

	// NewStore creates an empty document store for each load.
	NewStore func() driven.DocumentStore

	// Embedder may be nil, in which case RankSimilar fails with
	// domain.ErrEmbeddingUnavailable.
	Embedder driven.EmbeddingService

	// NewIndex creates the per-field nearest-neighbour index.
	NewIndex driven.IndexFactory

	Similarity SimilarityConfig
}

// Catalog loads the corpus lazily and serves lexical search and similarity
// ranking over an immutable snapshot of it.
type Catalog struct {
	loader  driving.CorpusService
	cleaner *FieldCleaner
	cfg     CatalogConfig

	// reload serialises loads so a slow rebuild is not started twice.
	reload sync.Mutex

	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	store      driven.DocumentStore
	lexical    *LexicalSearch
	similarity *Similarity
	report     *domain.ProcessingReport
}

// NewCatalog creates a catalog. Nothing is read until the first request.
func NewCatalog(loader driving.CorpusService, cleaner *FieldCleaner, cfg CatalogConfig) *Catalog {
	return &Catalog{loader: loader, cleaner: cleaner, cfg: cfg}
}

// Reload reads the corpus folder into a fresh store and swaps it in.
func (c *Catalog) Reload(ctx context.Context) (*domain.ProcessingReport, error) {
	c.reload.Lock()
	defer c.reload.Unlock()

	snap, err := c.build(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	logger.Info("catalog holds %d documents", snap.store.Len())
	return snap.report, nil
}

func (c *Catalog) build(ctx context.Context) (*snapshot, error) {
	store := c.cfg.NewStore()
	report, err := c.loader.Load(ctx, c.cfg.Dir, store)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return &snapshot{
		store:      store,
		lexical:    NewLexicalSearch(store, c.cleaner),
		similarity: NewSimilarity(store, c.cfg.Embedder, c.cfg.NewIndex, c.cfg.Similarity),
		report:     report,
	}, nil
}

// current returns the loaded snapshot, loading it on first use.
func (c *Catalog) current(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	c.reload.Lock()
	defer c.reload.Unlock()

	c.mu.RLock()
	snap = c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	snap, err := c.build(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	return snap, nil
}

// Report returns the report of the last corpus load.
func (c *Catalog) Report() *domain.ProcessingReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	return c.snap.report
}

// Search runs a lexical query against the corpus.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.RankedResult, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.lexical.Search(ctx, query)
}

// RankSimilar ranks the corpus against each new document.
func (c *Catalog) RankSimilar(ctx context.Context, docs []domain.CleanedDocument) ([]domain.SimilarityGroup, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.similarity.RankSimilar(ctx, docs)
}

// LoadDocuments reads new leaflets from dir into a throwaway store.
func (c *Catalog) LoadDocuments(
	ctx context.Context, dir string,
) ([]domain.CleanedDocument, *domain.ProcessingReport, error) {
	store := c.cfg.NewStore()
	report, err := c.loader.Load(ctx, dir, store)
	if err != nil {
		return nil, nil, fmt.Errorf("load documents: %w", err)
	}
	return store.All(), report, nil
}
