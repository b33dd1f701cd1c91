package domain

// Replacement is one literal substitution in the normalisation table.
type Replacement struct {
	// Old is matched case-insensitively.
	Old string

	// New replaces every occurrence of Old.
	New string
}

// Vocabulary is the data that drives normalisation and cleaning.
// It is loaded once per run and passed to the services that need it.
type Vocabulary struct {
	// Replacements are applied in order, each to the output of the previous one.
	Replacements []Replacement

	// StopWords maps a field to the tokens removed from it.
	StopWords map[Field][]string
}

// StopSet returns the stop words for a field as a set.
// An unknown field yields an empty set.
func (v Vocabulary) StopSet(f Field) map[string]struct{} {
	words := v.StopWords[f]
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
