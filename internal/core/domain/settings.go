package domain

const unknownDescription = "Unknown"

// PairingMode controls how composition and indications candidates are
// combined into one similarity score.
type PairingMode string

// Available pairing modes.
const (
	// PairingPositional pairs the i-th candidate of each field list.
	PairingPositional PairingMode = "positional"

	// PairingFilename pairs candidates that refer to the same corpus document.
	PairingFilename PairingMode = "filename"
)

// IsValid returns true if the pairing mode is recognised.
func (m PairingMode) IsValid() bool {
	switch m {
	case PairingPositional, PairingFilename:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m PairingMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m PairingMode) Description() string {
	switch m {
	case PairingPositional:
		return "Positional (i-th composition hit with i-th indications hit)"
	case PairingFilename:
		return "Filename (hits for the same corpus document)"
	default:
		return unknownDescription
	}
}

// FieldMode selects which content fields drive similarity ranking.
type FieldMode string

// Available field modes.
const (
	// FieldModeBoth blends composition and indications.
	FieldModeBoth FieldMode = "both"

	// FieldModeComposition ranks by composition only.
	FieldModeComposition FieldMode = "composition"

	// FieldModeIndications ranks by indications only.
	FieldModeIndications FieldMode = "indications"
)

// IsValid returns true if the field mode is recognised.
func (m FieldMode) IsValid() bool {
	switch m {
	case FieldModeBoth, FieldModeComposition, FieldModeIndications:
		return true
	default:
		return false
	}
}

// Fields returns the content fields the mode embeds.
func (m FieldMode) Fields() []Field {
	switch m {
	case FieldModeComposition:
		return []Field{FieldComposition}
	case FieldModeIndications:
		return []Field{FieldIndications}
	default:
		return []Field{FieldComposition, FieldIndications}
	}
}

// String returns the string representation.
func (m FieldMode) String() string {
	return string(m)
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AnalyzerKind identifies a linguistic analyzer backend.
type AnalyzerKind string

// Available analyzer kinds.
const (
	// AnalyzerLexicon reads a form/lemma/POS lexicon from disk.
	AnalyzerLexicon AnalyzerKind = "lexicon"

	// AnalyzerRemote calls an HTTP NLP service.
	AnalyzerRemote AnalyzerKind = "remote"
)

// IsValid returns true if the analyzer kind is recognised.
func (k AnalyzerKind) IsValid() bool {
	switch k {
	case AnalyzerLexicon, AnalyzerRemote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AnalyzerKind) String() string {
	return string(k)
}

// CorpusSettings controls how leaflets are read from disk.
type CorpusSettings struct {
	// Dir is the corpus folder.
	Dir string

	// MaxPages is how many leading pages are read per file.
	MaxPages int

	// FooterPoints is the height clipped from the bottom of each PDF page.
	FooterPoints float64

	// Extensions are the file extensions read, without the dot.
	Extensions []string

	// Workers bounds parallel extraction and cleaning.
	Workers int
}

// SearchSettings controls both retrieval engines.
type SearchSettings struct {
	// TopK is the nearest-neighbour over-fetch per field.
	TopK int

	// Pairing selects how field candidates are combined.
	Pairing PairingMode

	// FieldMode selects which fields drive similarity.
	FieldMode FieldMode

	// Threshold is the strict lower bound for displayed lexical scores.
	Threshold float64
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RatePerSecond caps embedding requests. Zero means unlimited.
	RatePerSecond float64

	// BatchSize is the maximum number of texts per request.
	BatchSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// AnalyzerSettings holds linguistic analyzer configuration.
type AnalyzerSettings struct {
	// Kind selects the backend.
	Kind AnalyzerKind

	// LexiconPath is the TSV lexicon file for the lexicon backend.
	LexiconPath string

	// UnknownPOS is the tag given to words missing from the lexicon.
	UnknownPOS string

	// BaseURL is the endpoint of the remote backend.
	BaseURL string
}

// CleaningConfig holds the per-field cleaning stage lists.
// Stage names are resolved through the stage registry.
type CleaningConfig struct {
	// Stages maps a field to its ordered stage names.
	Stages map[Field][]string
}

// StagesFor returns the stage names for a field, or nil if not set.
func (c CleaningConfig) StagesFor(f Field) []string {
	if c.Stages == nil {
		return nil
	}
	return c.Stages[f]
}

// Settings holds all application settings.
type Settings struct {
	Corpus    CorpusSettings
	Search    SearchSettings
	Embedding EmbeddingSettings
	Analyzer  AnalyzerSettings
	Cleaning  CleaningConfig

	// VocabularyPath overrides the embedded vocabulary when set.
	VocabularyPath string
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Corpus: CorpusSettings{
			Dir:          "data",
			MaxPages:     4,
			FooterPoints: 80,
			Extensions:   []string{"pdf"},
			Workers:      4,
		},
		Search: SearchSettings{
			TopK:      150,
			Pairing:   PairingPositional,
			FieldMode: FieldModeBoth,
			Threshold: 0,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:   DefaultEmbeddingURLs()[AIProviderOllama],
			BatchSize: 64,
		},
		Analyzer: AnalyzerSettings{
			Kind:       AnalyzerLexicon,
			UnknownPOS: "NOUN",
			BaseURL:    "http://localhost:8080",
		},
		Cleaning: DefaultCleaningConfig(),
	}
}

// DefaultCleaningConfig returns the stage lists for each field.
// The name field is not lemmatised.
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		Stages: map[Field][]string{
			FieldName:        {"strip", "tokenize", "stopwords", "dedup"},
			FieldComposition: {"strip", "tokenize", "stopwords", "lemmatize", "dedup"},
			FieldIndications: {"strip", "tokenize", "stopwords", "lemmatize", "dedup"},
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultEmbeddingURLs returns default endpoints for each embedding provider.
func DefaultEmbeddingURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "http://localhost:11434",
		AIProviderOpenAI: "https://api.openai.com/v1",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		"bge-m3":            1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
