package services

import (
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// Normalizer applies the replacement table to raw page text and case-folds it.
type Normalizer struct {
	replacements []domain.Replacement
}

// NewNormalizer creates a normalizer. Keys and values are upper-cased once
// here so matching is case-insensitive against the upper-cased text.
func NewNormalizer(replacements []domain.Replacement) *Normalizer {
	table := make([]domain.Replacement, 0, len(replacements))
	for _, r := range replacements {
		if r.Old == "" {
			continue
		}
		table = append(table, domain.Replacement{
			Old: strings.ToUpper(r.Old),
			New: strings.ToUpper(r.New),
		})
	}
	return &Normalizer{replacements: table}
}

// Normalize applies every replacement in table order, each to the result of
// the previous one, then lower-cases the text and collapses whitespace runs.
// Applying it to its own output returns the same text.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToUpper(text)
	for _, r := range n.replacements {
		text = strings.ReplaceAll(text, r.Old, r.New)
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Len returns the number of active replacements.
func (n *Normalizer) Len() int {
	return len(n.replacements)
}
