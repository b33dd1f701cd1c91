package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Ensure Similarity implements the interface.
var _ driving.SimilarityService = (*Similarity)(nil)

// SimilarityConfig tunes the semantic ranking.
type SimilarityConfig struct {
	Search domain.SearchSettings

	// BatchSize caps the texts sent in one embedding request. Zero sends all.
	BatchSize int

	// Workers is the size of the per-document worker pool.
	Workers int
}

// Similarity ranks corpus leaflets against new leaflets by embedding
// similarity of their composition and indications.
type Similarity struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
	newIndex driven.IndexFactory
	cfg      SimilarityConfig
}

// NewSimilarity creates a similarity service. The embedder may be nil, in
// which case RankSimilar returns domain.ErrEmbeddingUnavailable.
func NewSimilarity(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	newIndex driven.IndexFactory,
	cfg SimilarityConfig,
) *Similarity {
	if cfg.Search.TopK <= 0 {
		cfg.Search.TopK = domain.DefaultSettings().Search.TopK
	}
	if !cfg.Search.Pairing.IsValid() {
		cfg.Search.Pairing = domain.PairingPositional
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Similarity{
		store:    store,
		embedder: embedder,
		newIndex: newIndex,
		cfg:      cfg,
	}
}

// fieldSpace holds the embeddings and index of one content field.
type fieldSpace struct {
	index   driven.VectorIndex
	corpus  [][]float32
	queries [][]float32
}

// RankSimilar implements driving.SimilarityService.
func (s *Similarity) RankSimilar(ctx context.Context, docs []domain.CleanedDocument) ([]domain.SimilarityGroup, error) {
	logger.Section("Similarity Ranking")

	if len(docs) == 0 {
		return []domain.SimilarityGroup{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	s.store.Freeze()
	corpus := s.store.All()
	if len(corpus) == 0 {
		logger.Debug("Empty corpus, returning no results")
		return []domain.SimilarityGroup{}, nil
	}

	fields := s.cfg.Search.FieldMode.Fields()
	spaces := make(map[domain.Field]*fieldSpace, len(fields))
	defer func() {
		for _, sp := range spaces {
			_ = sp.index.Close()
		}
	}()
	for _, f := range fields {
		sp, err := s.buildSpace(ctx, f, corpus, docs)
		if err != nil {
			return nil, err
		}
		spaces[f] = sp
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	groups := make([]domain.SimilarityGroup, len(docs))
	errs := make([]error, len(docs))
	var wg sync.WaitGroup

	for i := range docs {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			groups[i], errs[i] = s.rankOne(ctx, i, docs[i], corpus, fields, spaces)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit %s: %w", docs[i].Filename, err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return groups, nil
}

// buildSpace embeds one field for corpus and new documents and indexes the
// corpus vectors in corpus order.
func (s *Similarity) buildSpace(
	ctx context.Context, field domain.Field, corpus, docs []domain.CleanedDocument,
) (*fieldSpace, error) {
	defer logger.Elapsed("index "+field.String(), time.Now())
	corpusVecs, err := s.embedField(ctx, field, corpus)
	if err != nil {
		return nil, fmt.Errorf("embed corpus %s: %w", field, err)
	}
	queryVecs, err := s.embedField(ctx, field, docs)
	if err != nil {
		return nil, fmt.Errorf("embed new %s: %w", field, err)
	}

	dims := fieldDims(corpusVecs, queryVecs)
	resizeZeros(corpusVecs, dims)
	resizeZeros(queryVecs, dims)

	index, err := s.newIndex(dims)
	if err != nil {
		return nil, fmt.Errorf("create %s index: %w", field, err)
	}
	for _, v := range corpusVecs {
		if _, err := index.Add(ctx, v); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index %s: %w", field, err)
		}
	}
	logger.Debug("Indexed %d %s vectors (%d dims)", index.Len(), field, dims)

	return &fieldSpace{index: index, corpus: corpusVecs, queries: queryVecs}, nil
}

func (s *Similarity) embedField(
	ctx context.Context, field domain.Field, docs []domain.CleanedDocument,
) ([][]float32, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Get(field)
	}

	size := s.cfg.BatchSize
	if size <= 0 || size > len(texts) {
		size = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("expected %d embeddings, got %d", end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// fieldDims returns the size of the first non-zero vector. Blank texts embed
// to zero vectors of the configured size, which can differ from the model's.
func fieldDims(sets ...[][]float32) int {
	for _, vecs := range sets {
		for _, v := range vecs {
			if !isZero(v) {
				return len(v)
			}
		}
	}
	return len(sets[0][0])
}

// resizeZeros replaces zero vectors of the wrong size with zeros of dims.
func resizeZeros(vecs [][]float32, dims int) {
	for i, v := range vecs {
		if len(v) != dims && isZero(v) {
			vecs[i] = make([]float32, dims)
		}
	}
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// scoredHit is an index hit rescored with exact cosine similarity.
type scoredHit struct {
	position int
	score    float64
}

func (s *Similarity) rankOne(
	ctx context.Context,
	i int,
	doc domain.CleanedDocument,
	corpus []domain.CleanedDocument,
	fields []domain.Field,
	spaces map[domain.Field]*fieldSpace,
) (domain.SimilarityGroup, error) {
	group := domain.SimilarityGroup{Filename: doc.Filename, Results: []domain.RankedResult{}}

	k := min(s.cfg.Search.TopK, len(corpus))
	if len(fields) == 1 {
		k = len(corpus)
	}

	hits := make(map[domain.Field][]scoredHit, len(fields))
	for _, f := range fields {
		scored, err := searchField(ctx, spaces[f], i, k)
		if err != nil {
			return group, fmt.Errorf("search %s %s: %w", doc.Filename, f, err)
		}
		hits[f] = scored
	}

	if len(fields) == 1 {
		for _, h := range hits[fields[0]] {
			score := domain.RoundScore(h.score)
			if score > 0 {
				group.Results = append(group.Results, resultFor(corpus[h.position], score))
			}
		}
		return group, nil
	}

	for _, pair := range pairHits(hits[domain.FieldComposition], hits[domain.FieldIndications], s.cfg.Search.Pairing) {
		combined := domain.RoundScore((pair[0].score + pair[1].score) / 2)
		if combined > 0 {
			group.Results = append(group.Results, resultFor(corpus[pair[0].position], combined))
		}
	}
	logger.Debug("%s: %d matches", doc.Filename, len(group.Results))
	return group, nil
}

// searchField queries the field index for the i-th new document and
// rescores each hit against the stored corpus vector.
func searchField(ctx context.Context, sp *fieldSpace, i, k int) ([]scoredHit, error) {
	query := sp.queries[i]
	found, err := sp.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	scored := make([]scoredHit, 0, len(found))
	for _, h := range found {
		if h.Position < 0 || h.Position >= len(sp.corpus) {
			continue
		}
		scored = append(scored, scoredHit{
			position: h.Position,
			score:    CosineSimilarity(query, sp.corpus[h.Position]),
		})
	}
	return scored, nil
}

// pairHits matches composition hits with indications hits. Positional
// pairing zips the two lists by rank; filename pairing keeps composition
// order and looks up the same corpus document on the indications side.
func pairHits(composition, indications []scoredHit, mode domain.PairingMode) [][2]scoredHit {
	var pairs [][2]scoredHit

	if mode == domain.PairingFilename {
		byPosition := make(map[int]scoredHit, len(indications))
		for _, h := range indications {
			byPosition[h.position] = h
		}
		for _, c := range composition {
			if ind, ok := byPosition[c.position]; ok {
				pairs = append(pairs, [2]scoredHit{c, ind})
			}
		}
		return pairs
	}

	n := min(len(composition), len(indications))
	for i := 0; i < n; i++ {
		pairs = append(pairs, [2]scoredHit{composition[i], indications[i]})
	}
	return pairs
}

func resultFor(doc domain.CleanedDocument, score float64) domain.RankedResult {
	return domain.RankedResult{
		Filename:    doc.Filename,
		ProductName: doc.Name,
		Score:       score,
	}
}

// CosineSimilarity returns the cosine of the angle between a and b.
// A zero vector, or vectors of different length, score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
