package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Field names one of the three sections extracted from a leaflet.
type Field string

// Extracted fields.
const (
	// FieldName is the product name section.
	FieldName Field = "name"

	// FieldComposition is the qualitative and quantitative composition section.
	FieldComposition Field = "composition"

	// FieldIndications is the therapeutic indications section.
	FieldIndications Field = "indications"
)

// IsValid returns true if the field is recognised.
func (f Field) IsValid() bool {
	switch f {
	case FieldName, FieldComposition, FieldIndications:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Field) String() string {
	return string(f)
}

// AllFields returns the extracted fields in document order.
func AllFields() []Field {
	return []Field{FieldName, FieldComposition, FieldIndications}
}

// ParseField converts a string to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: field %q", ErrInvalidInput, s)
	}
	return f, nil
}

// SegmentedDocument holds the raw section spans found in normalised text.
// Any span may be empty when its markers were not found.
type SegmentedDocument struct {
	Filename    string
	Name        string
	Composition string
	Indications string
}

// Get returns the span for a field.
func (d SegmentedDocument) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldComposition:
		return d.Composition
	case FieldIndications:
		return d.Indications
	default:
		return ""
	}
}

// CleanedDocument is the corpus's canonical unit. Each field holds
// space-joined, duplicate-free tokens in first-occurrence order.
type CleanedDocument struct {
	Filename    string
	Name        string
	Composition string
	Indications string
}

// Get returns the cleaned text for a field.
func (d CleanedDocument) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldComposition:
		return d.Composition
	case FieldIndications:
		return d.Indications
	default:
		return ""
	}
}

// Entry builds the lexical search view of the document.
func (d CleanedDocument) Entry(ts time.Time) CorpusEntry {
	return CorpusEntry{
		Title:     d.Name,
		Text:      d.Composition + " " + d.Indications,
		Filename:  d.Filename,
		Timestamp: ts,
	}
}

// CorpusEntry is the record indexed by lexical search.
type CorpusEntry struct {
	// Title is the cleaned product name.
	Title string

	// Text is composition and indications joined with one space.
	Text string

	// Filename identifies the source leaflet.
	Filename string

	// Timestamp is when the entry was built. It does not affect ranking.
	Timestamp time.Time
}

// ProductName returns the display form of a cleaned name: the first
// letter upper-cased, the rest untouched.
func ProductName(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
