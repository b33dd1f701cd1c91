package textproc

import (
	"context"
	"errors"
	"strings"
)

// mockAnalyzer tokenises on whitespace and tags words from fixed tables.
// Words missing from pos are tagged NOUN; words missing from lemmas are
// their own lemma.
type mockAnalyzer struct {
	pos         map[string]string
	lemmas      map[string]string
	tokenizeErr error
	lemmaErr    error
	lemmaCalls  []string
}

func (m *mockAnalyzer) Tokenize(_ context.Context, text string) ([]string, error) {
	if m.tokenizeErr != nil {
		return nil, m.tokenizeErr
	}
	return strings.Fields(text), nil
}

func (m *mockAnalyzer) Lemmatize(_ context.Context, text string, pos string) ([]string, error) {
	m.lemmaCalls = append(m.lemmaCalls, text)
	if m.lemmaErr != nil {
		return nil, m.lemmaErr
	}
	var out []string
	for _, w := range strings.Fields(text) {
		tag, ok := m.pos[w]
		if !ok {
			tag = "NOUN"
		}
		if tag != pos {
			continue
		}
		lemma, ok := m.lemmas[w]
		if !ok {
			lemma = w
		}
		out = append(out, lemma)
	}
	return out, nil
}

func (m *mockAnalyzer) Close() error { return nil }

var errAnalyzer = errors.New("analyzer down")
