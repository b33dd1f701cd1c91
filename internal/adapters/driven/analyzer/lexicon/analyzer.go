// Package lexicon provides an offline analyzer backed by a tab-separated
// form/lemma/part-of-speech lexicon.
//
// Lexicon lines have three columns:
//
//	tabletkach	tabletka	NOUN
//	leczenie	leczenie	NOUN
//	stosować	stosować	VERB
//
// Lines starting with '#' are comments. Forms are matched case-insensitively
// and the first entry for a form wins. Words missing from the lexicon are
// their own lemma and are tagged with the configured unknown tag.
package lexicon

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// DefaultUnknownPOS is the tag given to words missing from the lexicon.
const DefaultUnknownPOS = driven.POSNoun

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

type entry struct {
	lemma string
	pos   string
}

// Analyzer tokenizes on letter runs and lemmatizes by lexicon lookup.
type Analyzer struct {
	entries    map[string]entry
	unknownPOS string
}

// New reads a lexicon from r.
func New(r io.Reader, unknownPOS string) (*Analyzer, error) {
	if unknownPOS == "" {
		unknownPOS = DefaultUnknownPOS
	}

	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	entries := make(map[string]entry)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lexicon: %w", err)
		}

		form := strings.ToLower(strings.TrimSpace(record[0]))
		if form == "" {
			continue
		}
		if _, exists := entries[form]; exists {
			continue
		}
		entries[form] = entry{
			lemma: strings.ToLower(strings.TrimSpace(record[1])),
			pos:   strings.ToUpper(strings.TrimSpace(record[2])),
		}
	}

	return &Analyzer{entries: entries, unknownPOS: unknownPOS}, nil
}

// Open reads the lexicon file at path. An empty path gives an analyzer
// with no entries, so every word is its own lemma.
func Open(path, unknownPOS string) (*Analyzer, error) {
	if path == "" {
		return New(strings.NewReader(""), unknownPOS)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	defer f.Close()
	return New(f, unknownPOS)
}

// Len returns the number of distinct forms.
func (a *Analyzer) Len() int {
	return len(a.entries)
}

// Tokenize splits text into runs of letters, digits and underscores.
func (a *Analyzer) Tokenize(_ context.Context, text string) ([]string, error) {
	return wordPattern.FindAllString(text, -1), nil
}

// Lemmatize returns the lemmas of the words tagged pos.
func (a *Analyzer) Lemmatize(ctx context.Context, text, pos string) ([]string, error) {
	words, err := a.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}

	lemmas := make([]string, 0, len(words))
	for _, word := range words {
		lemma, tag := a.lookup(word)
		if tag == pos {
			lemmas = append(lemmas, lemma)
		}
	}
	return lemmas, nil
}

func (a *Analyzer) lookup(word string) (lemma, pos string) {
	lower := strings.ToLower(word)
	if e, ok := a.entries[lower]; ok {
		return e.lemma, e.pos
	}
	return lower, a.unknownPOS
}

// Close releases resources.
func (a *Analyzer) Close() error {
	return nil
}
