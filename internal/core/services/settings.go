package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusDir          = "corpus.dir"
	keyCorpusMaxPages     = "corpus.max_pages"
	keyCorpusFooter       = "corpus.footer_points"
	keyCorpusExtensions   = "corpus.extensions"
	keyCorpusWorkers      = "corpus.workers"
	keySearchTopK         = "search.top_k"
	keySearchPairing      = "search.pairing"
	keySearchFieldMode    = "search.field_mode"
	keySearchThreshold    = "search.threshold"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedRate          = "embedding.rate_per_second"
	keyEmbedBatchSize     = "embedding.batch_size"
	keyAnalyzerKind       = "analyzer.kind"
	keyAnalyzerLexicon    = "analyzer.lexicon_path"
	keyAnalyzerUnknownPOS = "analyzer.unknown_pos"
	keyAnalyzerBaseURL    = "analyzer.base_url"
	keyVocabularyPath     = "vocabulary.path"
	keyCleaningPrefix     = "cleaning."
	keyCleaningSuffix     = ".stages"

	// envOpenAIKey supplies the OpenAI key when the config has none.
	envOpenAIKey = "OPENAI_API_KEY"
)

// SettingsService maps configuration keys to domain settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	settings := &domain.Settings{
		Corpus: domain.CorpusSettings{
			Dir:          s.getString(keyCorpusDir, defaults.Corpus.Dir),
			MaxPages:     s.getInt(keyCorpusMaxPages, defaults.Corpus.MaxPages),
			FooterPoints: s.getFloat(keyCorpusFooter, defaults.Corpus.FooterPoints),
			Extensions:   s.getStringSlice(keyCorpusExtensions, defaults.Corpus.Extensions),
			Workers:      s.getInt(keyCorpusWorkers, defaults.Corpus.Workers),
		},
		Search: domain.SearchSettings{
			TopK:      s.getInt(keySearchTopK, defaults.Search.TopK),
			Pairing:   s.getPairing(defaults.Search.Pairing),
			FieldMode: s.getFieldMode(defaults.Search.FieldMode),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:      provider,
			Model:         s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider]),
			BaseURL:       s.getString(keyEmbedBaseURL, domain.DefaultEmbeddingURLs()[provider]),
			APIKey:        s.configStore.GetString(keyEmbedAPIKey),
			RatePerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RatePerSecond),
			BatchSize:     s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
		},
		Analyzer: domain.AnalyzerSettings{
			Kind:        s.getAnalyzerKind(defaults.Analyzer.Kind),
			LexiconPath: s.configStore.GetString(keyAnalyzerLexicon),
			UnknownPOS:  s.getString(keyAnalyzerUnknownPOS, defaults.Analyzer.UnknownPOS),
			BaseURL:     s.getString(keyAnalyzerBaseURL, defaults.Analyzer.BaseURL),
		},
		Cleaning:       s.getCleaning(defaults.Cleaning),
		VocabularyPath: s.configStore.GetString(keyVocabularyPath),
	}

	threshold, err := s.getThreshold(defaults.Search.Threshold)
	if err != nil {
		return nil, err
	}
	settings.Search.Threshold = threshold

	if settings.Embedding.APIKey == "" && provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = s.getenv(envOpenAIKey)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCorpusDir, settings.Corpus.Dir},
		{keyCorpusMaxPages, settings.Corpus.MaxPages},
		{keyCorpusFooter, settings.Corpus.FooterPoints},
		{keyCorpusExtensions, settings.Corpus.Extensions},
		{keyCorpusWorkers, settings.Corpus.Workers},
		{keySearchTopK, settings.Search.TopK},
		{keySearchPairing, settings.Search.Pairing.String()},
		{keySearchFieldMode, settings.Search.FieldMode.String()},
		{keySearchThreshold, settings.Search.Threshold},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedRate, settings.Embedding.RatePerSecond},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyAnalyzerKind, settings.Analyzer.Kind.String()},
		{keyAnalyzerLexicon, settings.Analyzer.LexiconPath},
		{keyAnalyzerUnknownPOS, settings.Analyzer.UnknownPOS},
		{keyAnalyzerBaseURL, settings.Analyzer.BaseURL},
		{keyVocabularyPath, settings.VocabularyPath},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	for _, f := range domain.AllFields() {
		stages := settings.Cleaning.StagesFor(f)
		if len(stages) == 0 {
			continue
		}
		key := keyCleaningPrefix + f.String() + keyCleaningSuffix
		if err := s.configStore.Set(key, stages); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return s.configStore.Save()
}

// Validate checks the stored values that Get would silently replace with
// defaults, and the values no default can fix.
func (s *SettingsService) Validate() error {
	var errs []error

	if v := s.configStore.GetString(keySearchPairing); v != "" && !domain.PairingMode(v).IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, keySearchPairing, v))
	}
	if v := s.configStore.GetString(keySearchFieldMode); v != "" && !domain.FieldMode(v).IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, keySearchFieldMode, v))
	}
	if v := s.configStore.GetString(keyEmbedProvider); v != "" && !domain.AIProvider(v).IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, keyEmbedProvider, v))
	}
	if v := s.configStore.GetString(keyAnalyzerKind); v != "" && !domain.AnalyzerKind(v).IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, keyAnalyzerKind, v))
	}

	settings, err := s.Get()
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if settings.Search.TopK < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keySearchTopK))
	}
	if settings.Corpus.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyCorpusMaxPages))
	}
	if settings.Analyzer.Kind == domain.AnalyzerLexicon && settings.Analyzer.LexiconPath != "" {
		if _, err := os.Stat(settings.Analyzer.LexiconPath); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", keyAnalyzerLexicon, err))
		}
	}
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %s: %w", settings.Embedding.Provider, domain.ErrEmbeddingUnavailable))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

// getThreshold accepts a number or a numeric string.
func (s *SettingsService) getThreshold(defaultVal float64) (float64, error) {
	raw, exists := s.configStore.Get(keySearchThreshold)
	if !exists {
		return defaultVal, nil
	}
	str, ok := raw.(string)
	if !ok {
		return s.configStore.GetFloat(keySearchThreshold), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, keySearchThreshold, str)
	}
	return v, nil
}

func (s *SettingsService) getPairing(defaultVal domain.PairingMode) domain.PairingMode {
	mode := domain.PairingMode(s.configStore.GetString(keySearchPairing))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getFieldMode(defaultVal domain.FieldMode) domain.FieldMode {
	mode := domain.FieldMode(s.configStore.GetString(keySearchFieldMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getAnalyzerKind(defaultVal domain.AnalyzerKind) domain.AnalyzerKind {
	kind := domain.AnalyzerKind(s.configStore.GetString(keyAnalyzerKind))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

// getCleaning reads cleaning.<field>.stages for each field.
func (s *SettingsService) getCleaning(defaults domain.CleaningConfig) domain.CleaningConfig {
	cfg := domain.CleaningConfig{Stages: make(map[domain.Field][]string)}
	for _, f := range domain.AllFields() {
		key := keyCleaningPrefix + f.String() + keyCleaningSuffix
		cfg.Stages[f] = s.getStringSlice(key, defaults.StagesFor(f))
	}
	return cfg
}
