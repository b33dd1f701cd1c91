package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
)

// mockCatalog implements driving.CatalogService for CLI tests.
type mockCatalog struct {
	results []domain.RankedResult
	groups  []domain.SimilarityGroup
	docs    []domain.CleanedDocument
	corpus  *domain.ProcessingReport
	loaded  *domain.ProcessingReport
	err     error

	searchQuery string
	loadedDir   string
	ranked      []domain.CleanedDocument
	reloads     int
}

var _ driving.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) Search(_ context.Context, query string) ([]domain.RankedResult, error) {
	m.searchQuery = query
	return m.results, m.err
}

func (m *mockCatalog) RankSimilar(_ context.Context, docs []domain.CleanedDocument) ([]domain.SimilarityGroup, error) {
	m.ranked = docs
	return m.groups, m.err
}

func (m *mockCatalog) Reload(_ context.Context) (*domain.ProcessingReport, error) {
	m.reloads++
	return m.corpus, m.err
}

func (m *mockCatalog) LoadDocuments(
	_ context.Context, dir string,
) ([]domain.CleanedDocument, *domain.ProcessingReport, error) {
	m.loadedDir = dir
	report := m.loaded
	if report == nil {
		report = &domain.ProcessingReport{Source: dir}
	}
	return m.docs, report, nil
}

func (m *mockCatalog) Report() *domain.ProcessingReport {
	return m.corpus
}

// appCall records how newApp was invoked.
type appCall struct {
	calls         int
	withEmbedding bool
}

// stubApp replaces newApp with one serving catalog.
func stubApp(t *testing.T, catalog driving.CatalogService) *appCall {
	t.Helper()
	call := &appCall{}
	original := newApp
	newApp = func(_ *cobra.Command, withEmbedding bool) (*app, error) {
		call.calls++
		call.withEmbedding = withEmbedding
		return &app{settings: domain.DefaultSettings(), catalog: catalog}, nil
	}
	t.Cleanup(func() { newApp = original })
	return call
}

// resetFlags restores every root flag to its default between runs.
func resetFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"query", "file", "report"} {
		f := rootCmd.Flags().Lookup(name)
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, name := range []string{"data", "config", "verbose", "top-k", "pairing", "field", "threshold"} {
		f := rootCmd.PersistentFlags().Lookup(name)
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
