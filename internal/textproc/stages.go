package textproc

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Built-in stage names.
const (
	StageStrip     = "strip"
	StageTokenize  = "tokenize"
	StageStopWords = "stopwords"
	StageLemmatize = "lemmatize"
	StageDedup     = "dedup"
)

var (
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	digitPattern   = regexp.MustCompile(`\p{Nd}+`)
)

// StripFormatting removes every character that is not a letter, digit,
// underscore or whitespace, lower-cases, removes digit runs and collapses
// whitespace.
func StripFormatting(text string) string {
	text = nonWordPattern.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	text = digitPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// stripStage joins its input and removes punctuation and digits.
type stripStage struct{}

func (stripStage) Name() string { return StageStrip }

func (stripStage) Process(_ context.Context, tokens []string) ([]string, error) {
	cleaned := StripFormatting(strings.Join(tokens, " "))
	if cleaned == "" {
		return nil, nil
	}
	return []string{cleaned}, nil
}

// tokenizeStage splits text into words with the analyzer.
type tokenizeStage struct {
	analyzer driven.Analyzer
}

func (tokenizeStage) Name() string { return StageTokenize }

func (s tokenizeStage) Process(ctx context.Context, tokens []string) ([]string, error) {
	text := strings.Join(tokens, " ")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return s.analyzer.Tokenize(ctx, text)
}

// stopWordStage drops tokens found in the field's stop set.
type stopWordStage struct {
	stop map[string]struct{}
}

func (stopWordStage) Name() string { return StageStopWords }

func (s stopWordStage) Process(_ context.Context, tokens []string) ([]string, error) {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, drop := s.stop[tok]; drop {
			continue
		}
		kept = append(kept, tok)
	}
	return kept, nil
}

// lemmatizeStage replaces the tokens with the lemmas of those tagged pos.
type lemmatizeStage struct {
	analyzer driven.Analyzer
	pos      string
}

func (lemmatizeStage) Name() string { return StageLemmatize }

func (s lemmatizeStage) Process(ctx context.Context, tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	return s.analyzer.Lemmatize(ctx, strings.Join(tokens, " "), s.pos)
}

// dedupStage keeps the first occurrence of each token.
type dedupStage struct{}

func (dedupStage) Name() string { return StageDedup }

func (dedupStage) Process(_ context.Context, tokens []string) ([]string, error) {
	return Dedup(tokens), nil
}

// Dedup removes repeated tokens, keeping first occurrences in order.
// Tokens are split on whitespace first so multi-word tokens dedup per word.
func Dedup(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		for _, word := range strings.Fields(tok) {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
		}
	}
	return out
}
