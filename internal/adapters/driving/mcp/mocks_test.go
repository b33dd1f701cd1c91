package mcp

import (
	"context"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
)

// mockCatalog implements driving.CatalogService for testing.
type mockCatalog struct {
	results []domain.RankedResult
	groups  []domain.SimilarityGroup
	docs    []domain.CleanedDocument
	report  *domain.ProcessingReport
	loaded  *domain.ProcessingReport
	err     error

	reloads int
	ranked  []domain.CleanedDocument
}

var _ driving.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) Search(_ context.Context, _ string) ([]domain.RankedResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockCatalog) RankSimilar(_ context.Context, docs []domain.CleanedDocument) ([]domain.SimilarityGroup, error) {
	m.ranked = docs
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

func (m *mockCatalog) Reload(_ context.Context) (*domain.ProcessingReport, error) {
	m.reloads++
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil {
		m.report = &domain.ProcessingReport{RunID: "reloaded"}
	}
	return m.report, nil
}

func (m *mockCatalog) LoadDocuments(
	_ context.Context, dir string,
) ([]domain.CleanedDocument, *domain.ProcessingReport, error) {
	if m.loaded != nil {
		return m.docs, m.loaded, nil
	}
	return m.docs, &domain.ProcessingReport{Source: dir}, nil
}

func (m *mockCatalog) Report() *domain.ProcessingReport {
	return m.report
}
