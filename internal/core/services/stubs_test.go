package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/textproc"
)

// --- Stub implementations ---

// stubAnalyzer tokenises on whitespace. Words missing from pos are nouns;
// words missing from lemmas are their own lemma.
type stubAnalyzer struct {
	pos      map[string]string
	lemmas   map[string]string
	lemmaErr error
}

func (a *stubAnalyzer) Tokenize(_ context.Context, text string) ([]string, error) {
	return strings.Fields(text), nil
}

func (a *stubAnalyzer) Lemmatize(_ context.Context, text string, pos string) ([]string, error) {
	if a.lemmaErr != nil {
		return nil, a.lemmaErr
	}
	var out []string
	for _, w := range strings.Fields(text) {
		tag := driven.POSNoun
		if p, ok := a.pos[w]; ok {
			tag = p
		}
		if tag != pos {
			continue
		}
		if l, ok := a.lemmas[w]; ok {
			w = l
		}
		out = append(out, w)
	}
	return out, nil
}

func (a *stubAnalyzer) Close() error { return nil }

// stubEmbedder returns fixed vectors per text. Unknown texts embed to the
// zero vector.
type stubEmbedder struct {
	mu      sync.Mutex
	dims    int
	vectors map[string][]float32
	err     error
	batches [][]string
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, texts)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := e.vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = make([]float32, e.dims)
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int { return e.dims }

func (e *stubEmbedder) ModelName() string { return "stub" }

func (e *stubEmbedder) Ping(_ context.Context) error { return e.err }

func (e *stubEmbedder) Close() error { return nil }

// stubExtractor serves pages from memory keyed by base filename.
type stubExtractor struct {
	ext     string
	pages   map[string][]string
	pageErr map[string]map[int]error
	openErr map[string]error
}

func (x *stubExtractor) Extensions() []string { return []string{x.ext} }

func (x *stubExtractor) Open(_ context.Context, path string) (driven.PageSource, error) {
	name := path[strings.LastIndex(path, "/")+1:]
	if err := x.openErr[name]; err != nil {
		return nil, err
	}
	pages, ok := x.pages[name]
	if !ok {
		return nil, fmt.Errorf("no pages for %s", name)
	}
	return &stubSource{pages: pages, errs: x.pageErr[name]}, nil
}

type stubSource struct {
	pages []string
	errs  map[int]error
	read  []int
}

func (s *stubSource) PageCount() int { return len(s.pages) }

func (s *stubSource) PageText(_ context.Context, page int) (string, error) {
	s.read = append(s.read, page)
	if err := s.errs[page]; err != nil {
		return "", err
	}
	return s.pages[page-1], nil
}

func (s *stubSource) Close() error { return nil }

// --- Helpers ---

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCleaner(t *testing.T, analyzer driven.Analyzer, vocab domain.Vocabulary) *FieldCleaner {
	t.Helper()
	pipelines, err := textproc.BuildFieldPipelines(textproc.DefaultRegistry(), domain.DefaultCleaningConfig(), analyzer, vocab)
	require.NoError(t, err)
	cleaner, err := NewFieldCleaner(pipelines)
	require.NoError(t, err)
	return cleaner
}
