package driven

import "context"

// PageExtractor opens leaflet files for per-page text extraction.
type PageExtractor interface {
	// Extensions returns the file extensions handled, without the dot.
	Extensions() []string

	// Open prepares a file for page reads.
	Open(ctx context.Context, path string) (PageSource, error)
}

// PageSource reads text from the pages of one opened file.
type PageSource interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the UTF-8 text of a 1-based page with its footer clipped.
	PageText(ctx context.Context, page int) (string, error)

	// Close releases resources.
	Close() error
}
