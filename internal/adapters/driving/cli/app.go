package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chpl-search/internal/adapters/driven/ai"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/extractor/pdf"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/extractor/text"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
	"github.com/custodia-labs/chpl-search/internal/core/services"
	"github.com/custodia-labs/chpl-search/internal/logger"
	"github.com/custodia-labs/chpl-search/internal/textproc"
)

// app holds the services wired for one command invocation.
type app struct {
	settings domain.Settings
	catalog  driving.CatalogService
	close    func()
}

// Close releases the analyzer and embedding service.
func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// newApp builds the application. Tests replace it with a stub.
var newApp = buildApp

func buildApp(cmd *cobra.Command, withEmbedding bool) (*app, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	vocab, err := file.NewVocabularyStore(settings.VocabularyPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	res, err := ai.Initialise(*settings, withEmbedding)
	if err != nil {
		return nil, fmt.Errorf("initialise analyzer: %w", err)
	}
	for _, w := range res.Warnings {
		logger.Warn("%s", w)
	}

	pipelines, err := textproc.BuildFieldPipelines(textproc.DefaultRegistry(), settings.Cleaning, res.Analyzer, vocab)
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("build cleaning pipelines: %w", err)
	}
	cleaner, err := services.NewFieldCleaner(pipelines)
	if err != nil {
		res.Close()
		return nil, err
	}

	if readsPDF(settings.Corpus.Extensions) {
		if err := pdf.CheckAvailable(); err != nil {
			logger.Error("%v\n%s", err, pdf.InstallInstructions())
		}
	}

	loader := services.NewCorpusLoader(
		services.NewNormalizer(vocab.Replacements),
		services.NewSegmenter(),
		cleaner,
		settings.Corpus,
		pdf.New(settings.Corpus.FooterPoints),
		text.New(),
	)

	catalog := services.NewCatalog(loader, cleaner, services.CatalogConfig{
		Dir:      settings.Corpus.Dir,
		NewStore: func() driven.DocumentStore { return memory.NewDocumentStore() },
		Embedder: res.EmbeddingService,
		NewIndex: flat.Factory,
		Similarity: services.SimilarityConfig{
			Search:    settings.Search,
			BatchSize: settings.Embedding.BatchSize,
			Workers:   settings.Corpus.Workers,
		},
	})

	return &app{
		settings: *settings,
		catalog:  catalog,
		close:    res.Close,
	}, nil
}

// loadSettings reads the config file and applies command line overrides.
// Bad values in the file fail the command; anything else is a warning.
func loadSettings(cmd *cobra.Command) (*domain.Settings, error) {
	store, err := file.NewConfigStore(rootFlags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	svc := services.NewSettingsService(store)

	if err := svc.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnsupportedType) {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		logger.Warn("config: %v", err)
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := applyOverrides(cmd, settings); err != nil {
		return nil, err
	}

	logger.Debug("corpus %s, top-k %d, pairing %s, field %s",
		settings.Corpus.Dir, settings.Search.TopK, settings.Search.Pairing, settings.Search.FieldMode)
	return settings, nil
}

// applyOverrides copies flags the user set onto settings.
func applyOverrides(cmd *cobra.Command, settings *domain.Settings) error {
	flags := cmd.Flags()

	if rootFlags.dataDir != "" {
		settings.Corpus.Dir = rootFlags.dataDir
	}
	if flags.Changed("top-k") {
		if rootFlags.topK < 1 {
			return fmt.Errorf("%w: --top-k must be positive", domain.ErrInvalidInput)
		}
		settings.Search.TopK = rootFlags.topK
	}
	if rootFlags.pairing != "" {
		mode := domain.PairingMode(rootFlags.pairing)
		if !mode.IsValid() {
			return fmt.Errorf("%w: --pairing %q", domain.ErrInvalidInput, rootFlags.pairing)
		}
		settings.Search.Pairing = mode
	}
	if rootFlags.fieldMode != "" {
		mode := domain.FieldMode(rootFlags.fieldMode)
		if !mode.IsValid() {
			return fmt.Errorf("%w: --field %q", domain.ErrInvalidInput, rootFlags.fieldMode)
		}
		settings.Search.FieldMode = mode
	}
	if flags.Changed("threshold") {
		settings.Search.Threshold = rootFlags.threshold
	}
	return nil
}

func readsPDF(extensions []string) bool {
	for _, ext := range extensions {
		if ext == "pdf" || ext == ".pdf" {
			return true
		}
	}
	return false
}
