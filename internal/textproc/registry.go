package textproc

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Dependencies are the collaborators a stage may need. A builder returns an
// error when a dependency it requires is missing.
type Dependencies struct {
	// Analyzer tokenises and lemmatises text.
	Analyzer driven.Analyzer

	// StopWords are the tokens removed from the field being cleaned.
	StopWords map[string]struct{}
}

// BuilderFunc creates a TextStage from its dependencies and generic config.
type BuilderFunc func(deps Dependencies, cfg map[string]any) (driven.TextStage, error)

// Registry maps stage names to their builders.
// It allows cleaning pipelines to be assembled from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new stage registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a stage builder to the registry.
// Name should be unique and match the stage's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a stage by name.
// Returns error if the stage name is not registered.
func (r *Registry) Build(name string, deps Dependencies, cfg map[string]any) (driven.TextStage, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s", name)
	}
	return builder(deps, cfg)
}

// BuildPipeline creates a pipeline from an ordered list of stage names.
func (r *Registry) BuildPipeline(names []string, deps Dependencies, cfg map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		stage, err := r.Build(name, deps, cfg)
		if err != nil {
			return nil, err
		}
		p.Add(stage)
	}
	return p, nil
}

// Has returns true if a stage with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
