package domain

// RawDocument is the page text read from one leaflet file.
// It is the extractor's output before normalisation.
type RawDocument struct {
	// Filename is the base name of the source file.
	Filename string

	// PageText is the first pages of the file joined with a single space,
	// footers clipped and newlines removed.
	PageText string
}
