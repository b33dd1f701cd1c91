// Package textproc provides the field cleaning stages and the pipeline that
// chains them.
package textproc

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.TextPipeline = (*Pipeline)(nil)

// Pipeline chains multiple TextStages and runs them in order.
type Pipeline struct {
	stages []driven.TextStage
}

// NewPipeline creates a new cleaning pipeline with the given stages.
// Stages are executed in the order provided.
func NewPipeline(stages ...driven.TextStage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// Process runs text through all stages in order. The first stage receives
// the text as a single token; the surviving tokens are joined with spaces.
func (p *Pipeline) Process(ctx context.Context, text string) (string, error) {
	tokens := []string{text}

	for _, stage := range p.stages {
		var err error
		tokens, err = stage.Process(ctx, tokens)
		if err != nil {
			return "", fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}

	return strings.Join(tokens, " "), nil
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.TextStage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
