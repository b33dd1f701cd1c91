// Package text provides a page extractor for plain-text leaflets.
// Pages are separated by form feeds, as written by pdftotext.
package text

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

const pageBreak = "\f"

// Extractor reads .txt files.
type Extractor struct{}

// New creates a plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{"txt"}
}

// Open reads the whole file and splits it into pages.
func (e *Extractor) Open(_ context.Context, path string) (driven.PageSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	content := strings.ToValidUTF8(string(data), "")
	pages := strings.Split(content, pageBreak)
	// A trailing form feed ends the last page rather than starting a new one.
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return &pageSource{pages: pages}, nil
}

type pageSource struct {
	pages []string
}

func (s *pageSource) PageCount() int {
	return len(s.pages)
}

func (s *pageSource) PageText(_ context.Context, page int) (string, error) {
	if page < 1 || page > len(s.pages) {
		return "", fmt.Errorf("%w: page %d of %d", domain.ErrInvalidInput, page, len(s.pages))
	}
	return s.pages[page-1], nil
}

func (s *pageSource) Close() error {
	return nil
}
