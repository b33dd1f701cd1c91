package driven

import "context"

// TextStage is one step of a field cleaning pipeline.
// Stages are chained; each receives the tokens produced by the previous one.
type TextStage interface {
	// Name returns the stage name for logging and configuration.
	Name() string

	// Process transforms the token sequence. The first stage of a pipeline
	// receives the raw field text as a single-element slice.
	Process(ctx context.Context, tokens []string) ([]string, error)
}

// TextPipeline chains TextStages to clean the text of one field.
type TextPipeline interface {
	// Process runs text through every stage in order and returns the
	// surviving tokens joined with single spaces.
	Process(ctx context.Context, text string) (string, error)
}
