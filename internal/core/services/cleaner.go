package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// FieldCleaner turns segmented sections into duplicate-free token strings,
// running each field through its own pipeline.
type FieldCleaner struct {
	pipelines map[domain.Field]driven.TextPipeline
}

// NewFieldCleaner creates a cleaner. Every field must have a pipeline.
func NewFieldCleaner(pipelines map[domain.Field]driven.TextPipeline) (*FieldCleaner, error) {
	for _, f := range domain.AllFields() {
		if pipelines[f] == nil {
			return nil, fmt.Errorf("%w: no pipeline for field %s", domain.ErrInvalidInput, f)
		}
	}
	return &FieldCleaner{pipelines: pipelines}, nil
}

// Clean runs the pipeline of a single field.
func (c *FieldCleaner) Clean(ctx context.Context, field domain.Field, text string) (string, error) {
	p, ok := c.pipelines[field]
	if !ok {
		return "", fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	return p.Process(ctx, text)
}

// CleanDocument cleans all three sections of a document.
func (c *FieldCleaner) CleanDocument(ctx context.Context, doc domain.SegmentedDocument) (domain.CleanedDocument, error) {
	out := domain.CleanedDocument{Filename: doc.Filename}

	name, err := c.Clean(ctx, domain.FieldName, doc.Name)
	if err != nil {
		return out, fmt.Errorf("clean %s name: %w", doc.Filename, err)
	}
	composition, err := c.Clean(ctx, domain.FieldComposition, doc.Composition)
	if err != nil {
		return out, fmt.Errorf("clean %s composition: %w", doc.Filename, err)
	}
	indications, err := c.Clean(ctx, domain.FieldIndications, doc.Indications)
	if err != nil {
		return out, fmt.Errorf("clean %s indications: %w", doc.Filename, err)
	}

	out.Name = name
	out.Composition = composition
	out.Indications = indications
	return out, nil
}

// CleanQuery prepares a free-text query the same way indications are cleaned.
func (c *FieldCleaner) CleanQuery(ctx context.Context, query string) (string, error) {
	return c.Clean(ctx, domain.FieldIndications, query)
}
