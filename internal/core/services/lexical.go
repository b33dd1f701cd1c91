package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Ensure LexicalSearch implements the interface.
var _ driving.LexicalSearchService = (*LexicalSearch)(nil)

var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// minTermRunes drops single-character terms.
const minTermRunes = 2

// termWeight is one non-zero entry of a sparse vector.
type termWeight struct {
	term   int
	weight float64
}

// sparseVector is sorted by term index.
type sparseVector []termWeight

func (v sparseVector) dot(o sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(o) {
		switch {
		case v[i].term == o[j].term:
			sum += v[i].weight * o[j].weight
			i++
			j++
		case v[i].term < o[j].term:
			i++
		default:
			j++
		}
	}
	return sum
}

// VectorSpaceModel is a TF-IDF space fitted on a corpus.
//
// Terms are lower-cased runs of letters, digits or underscore with at least
// two characters. Weights are raw counts times a smoothed idf,
// ln((1+n)/(1+df))+1, and every vector is L2-normalised.
type VectorSpaceModel struct {
	vocabulary map[string]int
	idf        []float64
	entries    []domain.CorpusEntry
	vectors    []sparseVector
}

// BuildVectorSpace fits the model on the corpus entries' Text.
// Returns domain.ErrEmptyCorpus when there are no entries.
func BuildVectorSpace(entries []domain.CorpusEntry) (*VectorSpaceModel, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	tokenised := make([][]string, len(entries))
	df := make(map[string]int)
	for i, e := range entries {
		terms := analyzeTerms(e.Text)
		tokenised[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	m := &VectorSpaceModel{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		entries:    entries,
		vectors:    make([]sparseVector, len(entries)),
	}
	n := float64(len(entries))
	for i, t := range terms {
		m.vocabulary[t] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	for i, doc := range tokenised {
		m.vectors[i] = m.vectorize(doc)
	}
	return m, nil
}

// Len returns the number of documents in the model.
func (m *VectorSpaceModel) Len() int {
	return len(m.entries)
}

// VocabularySize returns the number of distinct terms.
func (m *VectorSpaceModel) VocabularySize() int {
	return len(m.vocabulary)
}

// transform projects text into the fitted space. Unknown terms are ignored.
func (m *VectorSpaceModel) transform(text string) sparseVector {
	return m.vectorize(analyzeTerms(text))
}

// Rank scores every document against text and returns them by descending
// rounded score. Equal scores keep corpus order.
func (m *VectorSpaceModel) Rank(text string) []domain.RankedResult {
	query := m.transform(text)
	results := make([]domain.RankedResult, len(m.entries))
	for i, e := range m.entries {
		results[i] = domain.RankedResult{
			Filename:    e.Filename,
			ProductName: e.Title,
			Score:       domain.RoundScore(query.dot(m.vectors[i])),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (m *VectorSpaceModel) vectorize(terms []string) sparseVector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := m.vocabulary[t]; ok {
			counts[idx]++
		}
	}

	vec := make(sparseVector, 0, len(counts))
	for idx, c := range counts {
		vec = append(vec, termWeight{term: idx, weight: c * m.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].term < vec[j].term })

	var norm float64
	for _, tw := range vec {
		norm += tw.weight * tw.weight
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

// analyzeTerms lower-cases text and extracts its terms.
func analyzeTerms(text string) []string {
	matches := termPattern.FindAllString(strings.ToLower(text), -1)
	terms := matches[:0]
	for _, t := range matches {
		if utf8.RuneCountInString(t) >= minTermRunes {
			terms = append(terms, t)
		}
	}
	return terms
}

// LexicalSearch answers indication queries with a TF-IDF model built once
// over a frozen document store.
type LexicalSearch struct {
	store   driven.DocumentStore
	cleaner *FieldCleaner
	now     func() time.Time

	once     sync.Once
	model    *VectorSpaceModel
	buildErr error
}

// NewLexicalSearch creates a lexical search service over store.
func NewLexicalSearch(store driven.DocumentStore, cleaner *FieldCleaner) *LexicalSearch {
	return &LexicalSearch{
		store:   store,
		cleaner: cleaner,
		now:     time.Now,
	}
}

// Search implements driving.LexicalSearchService.
func (s *LexicalSearch) Search(ctx context.Context, query string) ([]domain.RankedResult, error) {
	logger.Section("Lexical Search")
	logger.Debug("Query: %q", query)

	model, err := s.ensureModel()
	if errors.Is(err, domain.ErrEmptyCorpus) {
		logger.Debug("Empty corpus, returning no results")
		return []domain.RankedResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	cleaned, err := s.cleaner.CleanQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clean query: %w", err)
	}
	logger.Debug("Cleaned query: %q", cleaned)

	results := model.Rank(cleaned)
	logger.Debug("Ranked %d documents", len(results))
	return results, nil
}

// ensureModel freezes the store and fits the model on first use.
func (s *LexicalSearch) ensureModel() (*VectorSpaceModel, error) {
	s.once.Do(func() {
		s.store.Freeze()
		entries := s.store.CorpusEntries(s.now)
		s.model, s.buildErr = BuildVectorSpace(entries)
		if s.model != nil {
			logger.Debug("Vector space: %d documents, %d terms", s.model.Len(), s.model.VocabularySize())
		}
	})
	return s.model, s.buildErr
}
