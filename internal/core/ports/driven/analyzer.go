package driven

import "context"

// POSNoun is the universal part-of-speech tag for nouns.
const POSNoun = "NOUN"

// Analyzer is the linguistic analyzer used by field cleaning.
// Instances are created explicitly and must be closed by their owner.
type Analyzer interface {
	// Tokenize splits text into words, in order.
	Tokenize(ctx context.Context, text string) ([]string, error)

	// Lemmatize returns the lemma of every token whose part of speech
	// equals pos, in order. Tokens with another part of speech are dropped.
	Lemmatize(ctx context.Context, text string, pos string) ([]string, error)

	// Close releases resources.
	Close() error
}
