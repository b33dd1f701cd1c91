package services

import (
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// sectionWindow locates one section by its first start marker and first end
// marker. Each list is tried in order until a marker is found.
type sectionWindow struct {
	field domain.Field
	start []string
	end   []string
}

// defaultWindows are the marker fallbacks for Polish product leaflets,
// matched against normalised (lower-cased) text.
var defaultWindows = []sectionWindow{
	{
		field: domain.FieldName,
		start: []string{"1"},
		end:   []string{"2.", "2"},
	},
	{
		field: domain.FieldComposition,
		start: []string{"2.", "2 skład ilościowy i jakościowy "},
		end:   []string{"3.", "4.1"},
	},
	{
		field: domain.FieldIndications,
		start: []string{"4.1", "wskazania"},
		end:   []string{"4.2"},
	},
}

// Segmenter splits normalised leaflet text into named sections.
type Segmenter struct {
	windows []sectionWindow
}

// NewSegmenter creates a segmenter with the leaflet marker table.
func NewSegmenter() *Segmenter {
	return &Segmenter{windows: defaultWindows}
}

// Segment extracts the three sections. Every window scans the whole text on
// its own. A window whose start or end marker is missing, or whose end comes
// before its start, yields an empty section.
func (s *Segmenter) Segment(filename, text string) domain.SegmentedDocument {
	doc := domain.SegmentedDocument{Filename: filename}
	for _, w := range s.windows {
		span := extractWindow(text, w)
		switch w.field {
		case domain.FieldName:
			doc.Name = span
		case domain.FieldComposition:
			doc.Composition = span
		case domain.FieldIndications:
			doc.Indications = span
		}
	}
	return doc
}

func extractWindow(text string, w sectionWindow) string {
	start := firstMarker(text, w.start)
	end := firstMarker(text, w.end)
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start:end])
}

// firstMarker returns the offset of the first marker in the list that occurs
// in text, or -1 if none does.
func firstMarker(text string, markers []string) int {
	for _, m := range markers {
		if i := strings.Index(text, m); i >= 0 {
			return i
		}
	}
	return -1
}
