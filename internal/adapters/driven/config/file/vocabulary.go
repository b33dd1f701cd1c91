package file

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure VocabularyStore implements the interface.
var _ driven.VocabularySource = (*VocabularyStore)(nil)

//go:embed vocabulary.toml
var defaultVocabulary []byte

// DefaultVocabulary returns the embedded vocabulary TOML.
func DefaultVocabulary() []byte {
	out := make([]byte, len(defaultVocabulary))
	copy(out, defaultVocabulary)
	return out
}

// VocabularyStore loads the replacement table and stop words from a TOML
// file, falling back to the embedded default when no path is configured.
// The parsed vocabulary is cached after the first successful load.
type VocabularyStore struct {
	path string

	once  sync.Once
	vocab domain.Vocabulary
	err   error
}

// NewVocabularyStore creates a vocabulary store. An empty path selects the
// embedded default.
func NewVocabularyStore(path string) *VocabularyStore {
	return &VocabularyStore{path: path}
}

// Path returns the override path, or "" for the embedded default.
func (s *VocabularyStore) Path() string {
	return s.path
}

// Load returns the vocabulary.
func (s *VocabularyStore) Load() (domain.Vocabulary, error) {
	s.once.Do(func() {
		data := defaultVocabulary
		if s.path != "" {
			raw, err := os.ReadFile(s.path)
			if err != nil {
				s.err = fmt.Errorf("read vocabulary: %w", err)
				return
			}
			data = raw
		}
		s.vocab, s.err = ParseVocabulary(data)
	})
	return s.vocab, s.err
}

type vocabularyFile struct {
	Replacements []replacementEntry  `toml:"replacements"`
	StopWords    map[string][]string `toml:"stopwords"`
}

type replacementEntry struct {
	Old string `toml:"old"`
	New string `toml:"new"`
}

// ParseVocabulary decodes vocabulary TOML. Stop words are trimmed and empty
// entries dropped; replacement order is preserved.
func ParseVocabulary(data []byte) (domain.Vocabulary, error) {
	var f vocabularyFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}

	vocab := domain.Vocabulary{
		Replacements: make([]domain.Replacement, 0, len(f.Replacements)),
		StopWords:    make(map[domain.Field][]string, len(f.StopWords)),
	}

	for i, r := range f.Replacements {
		if r.Old == "" {
			return domain.Vocabulary{}, fmt.Errorf("%w: replacement %d has an empty key", domain.ErrInvalidInput, i)
		}
		vocab.Replacements = append(vocab.Replacements, domain.Replacement{Old: r.Old, New: r.New})
	}

	for name, words := range f.StopWords {
		field, err := domain.ParseField(name)
		if err != nil {
			return domain.Vocabulary{}, fmt.Errorf("stopwords: %w", err)
		}
		// Stop words are matched against single tokens, so padding is dropped.
		cleaned := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				cleaned = append(cleaned, w)
			}
		}
		vocab.StopWords[field] = cleaned
	}

	return vocab, nil
}
