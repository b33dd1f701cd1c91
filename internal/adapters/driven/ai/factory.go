// Package ai provides factory functions for creating the embedding service
// and the linguistic analyzer from settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/chpl-search/internal/adapters/driven/analyzer/lexicon"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/analyzer/remote"
	ollamaembed "github.com/custodia-labs/chpl-search/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/chpl-search/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// rateBurst is the token bucket size of the embedding rate limiter.
const rateBurst = 1

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	Analyzer         driven.Analyzer
	EmbeddingService driven.EmbeddingService // nil when similarity is unavailable.
	Warnings         []string                // Non-fatal issues that disabled embeddings.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.Analyzer != nil {
		r.Analyzer.Close()
	}
}

// Initialise creates the analyzer and, when withEmbedding is set, a validated
// embedding service. The analyzer is required. An embedding failure is
// recorded as a warning and leaves EmbeddingService nil.
func Initialise(settings domain.Settings, withEmbedding bool) (*InitResult, error) {
	analyzer, err := CreateAndValidateAnalyzer(&settings.Analyzer)
	if err != nil {
		return nil, err
	}

	result := &InitResult{Analyzer: analyzer}
	if !withEmbedding {
		return result, nil
	}

	svc, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case svc == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: embedding provider not configured", domain.ErrEmbeddingUnavailable))
	default:
		result.EmbeddingService = svc
	}
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the embedding section of the config file",
			domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the embedding section of the config file",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings,
// wrapped with the configured request rate limit.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaEmbedding(settings)

	case domain.AIProviderOpenAI:
		svc, err = createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.New(svc, settings.RatePerSecond, rateBurst), nil
}

// CreateAndValidateAnalyzer creates the analyzer and, for analyzers backed by
// a service, validates connectivity.
func CreateAndValidateAnalyzer(settings *domain.AnalyzerSettings) (driven.Analyzer, error) {
	analyzer, err := CreateAnalyzer(settings)
	if err != nil {
		return nil, err
	}

	p, ok := analyzer.(interface{ Ping(ctx context.Context) error })
	if !ok {
		return analyzer, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		analyzer.Close()
		if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrAnalyzerUnavailable, err)
		}
		return nil, fmt.Errorf("%w. Check the analyzer section of the config file", err)
	}
	return analyzer, nil
}

// CreateAnalyzer creates the linguistic analyzer selected by settings.
func CreateAnalyzer(settings *domain.AnalyzerSettings) (driven.Analyzer, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no analyzer settings", domain.ErrAnalyzerUnavailable)
	}

	switch settings.Kind {
	case domain.AnalyzerLexicon, "":
		return lexicon.Open(settings.LexiconPath, settings.UnknownPOS)

	case domain.AnalyzerRemote:
		return remote.New(remote.Config{BaseURL: settings.BaseURL}), nil

	default:
		return nil, fmt.Errorf("%w: analyzer %s", domain.ErrUnsupportedType, settings.Kind)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}
