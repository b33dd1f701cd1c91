package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chpl-search/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

func defaultVocabulary(t *testing.T) domain.Vocabulary {
	t.Helper()
	vocab, err := file.NewVocabularyStore("").Load()
	require.NoError(t, err)
	return vocab
}

func TestNormalizer_CaseFolds(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, "charakterystyka produktu leczniczego", n.Normalize("CHARAKTERYSTYKA Produktu  Leczniczego"))
	assert.Equal(t, "", n.Normalize("   "))
	assert.Zero(t, n.Len())
}

func TestNormalizer_KeysMatchCaseInsensitively(t *testing.T) {
	n := NewNormalizer([]domain.Replacement{{Old: "2 skład", New: "2. SKŁAD "}})

	assert.Equal(t, "2. skład ilościowy", n.Normalize("2 Skład ilościowy"))
	assert.Equal(t, "2. skład ilościowy", n.Normalize("2 SKŁAD ilościowy"))
}

func TestNormalizer_SequentialComposition(t *testing.T) {
	// The second entry only fires because the first one produced its key.
	n := NewNormalizer([]domain.Replacement{
		{Old: "PODUKTU", New: "PRODUKTU"},
		{Old: "PRODUKTU LECZNICZEGO", New: "PRODUKTU"},
	})

	assert.Equal(t, "nazwa produktu", n.Normalize("nazwa poduktu leczniczego"))

	reversed := NewNormalizer([]domain.Replacement{
		{Old: "PRODUKTU LECZNICZEGO", New: "PRODUKTU"},
		{Old: "PODUKTU", New: "PRODUKTU"},
	})
	assert.Equal(t, "nazwa produktu leczniczego", reversed.Normalize("nazwa poduktu leczniczego"))
}

func TestNormalizer_SkipsEmptyKeys(t *testing.T) {
	n := NewNormalizer([]domain.Replacement{{Old: "", New: "X"}, {Old: "a", New: "b"}})

	assert.Equal(t, 1, n.Len())
	assert.Equal(t, "bbc", n.Normalize("abc"))
}

func TestNormalizer_DefaultTable(t *testing.T) {
	n := NewNormalizer(defaultVocabulary(t).Replacements)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "header spacing",
			input:    "1.NAZWA PRODUKTU LECZNICZEGOAspirin 2.SKŁAD kwas",
			expected: "1. nazwa produktu leczniczego aspirin 2. skład kwas",
		},
		{
			name:     "misspelt product",
			input:    "NAZWA WŁASNA PODUKTU",
			expected: "nazwa produktu",
		},
		{
			name:     "indications header",
			input:    "4.1Wskazania do stosowania 4.2 Dawkowanie",
			expected: "4.1. wskazania do stosowania 4.2 dawkowanie",
		},
		{
			name:     "slashes removed",
			input:    "mg/ml i/lub",
			expected: "mgml ilub",
		},
		{
			name:     "indicated phrase",
			input:    "Lek jest wskazany w leczeniu",
			expected: "lek wskazania w leczeniu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(defaultVocabulary(t).Replacements)

	inputs := []string{
		"",
		"CHARAKTERYSTYKA PRODUKTU LECZNICZEGO 1. NAZWA PRODUKTU LECZNICZEGO Aspirin 500 mg",
		"1 nazwa PODUKTU LECZNICZNEGO X 2 SKŁAD ILOŚCIOWY I JAKOŚCIOWY Każda tabletka 3. POSTAĆ",
		"Tabletki do ssania w jamie ustnej skład: 2.0\\4- substancja / mg",
		"4.1 Wskazania do stosowania Lek jest wskazany w gorączce 4.2 Dawkowanie",
		"LECZNICZEGO2.SKŁAD 2. skład 2. SKŁADNIK",
		"zażółć gęślą jaźń ŁÓDŹ",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}
