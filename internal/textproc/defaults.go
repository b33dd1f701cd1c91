package textproc

import (
	"fmt"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in stages with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(StageStrip, buildStrip)
	r.Register(StageTokenize, buildTokenize)
	r.Register(StageStopWords, buildStopWords)
	r.Register(StageLemmatize, buildLemmatize)
	r.Register(StageDedup, buildDedup)
}

// DefaultRegistry returns a registry with the built-in stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// BuildFieldPipelines assembles one pipeline per field from the cleaning
// config, giving each field its own stop set from the vocabulary.
// Fields without configured stages use the default stage list.
func BuildFieldPipelines(
	r *Registry,
	cfg domain.CleaningConfig,
	analyzer driven.Analyzer,
	vocab domain.Vocabulary,
) (map[domain.Field]driven.TextPipeline, error) {
	defaults := domain.DefaultCleaningConfig()
	pipelines := make(map[domain.Field]driven.TextPipeline, len(domain.AllFields()))

	for _, field := range domain.AllFields() {
		names := cfg.StagesFor(field)
		if len(names) == 0 {
			names = defaults.StagesFor(field)
		}
		deps := Dependencies{
			Analyzer:  analyzer,
			StopWords: vocab.StopSet(field),
		}
		p, err := r.BuildPipeline(names, deps, nil)
		if err != nil {
			return nil, fmt.Errorf("%s pipeline: %w", field, err)
		}
		pipelines[field] = p
	}

	return pipelines, nil
}

func buildStrip(_ Dependencies, _ map[string]any) (driven.TextStage, error) {
	return stripStage{}, nil
}

func buildTokenize(deps Dependencies, _ map[string]any) (driven.TextStage, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("%s: %w", StageTokenize, domain.ErrAnalyzerUnavailable)
	}
	return tokenizeStage{analyzer: deps.Analyzer}, nil
}

func buildStopWords(deps Dependencies, _ map[string]any) (driven.TextStage, error) {
	stop := deps.StopWords
	if stop == nil {
		stop = map[string]struct{}{}
	}
	return stopWordStage{stop: stop}, nil
}

// buildLemmatize creates a lemmatize stage.
// Supported config keys:
//   - pos (string): Part of speech to keep (default: NOUN)
func buildLemmatize(deps Dependencies, cfg map[string]any) (driven.TextStage, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("%s: %w", StageLemmatize, domain.ErrAnalyzerUnavailable)
	}
	pos := getStringFromConfig(cfg, "pos")
	if pos == "" {
		pos = driven.POSNoun
	}
	return lemmatizeStage{analyzer: deps.Analyzer, pos: pos}, nil
}

func buildDedup(_ Dependencies, _ map[string]any) (driven.TextStage, error) {
	return dedupStage{}, nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, _ := cfg[key].(string)
	return s
}
