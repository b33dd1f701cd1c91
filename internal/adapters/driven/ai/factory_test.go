package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/custodia-labs/chpl-search/internal/adapters/driven/analyzer/lexicon"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/analyzer/remote"
	"github.com/custodia-labs/chpl-search/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// newOllamaServer answers the Ollama tags endpoint used by Ping.
func newOllamaServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true, // unknown provider is not valid, so IsConfigured() returns false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateEmbeddingService_RateLimited(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider:      domain.AIProviderOllama,
		Model:         "nomic-embed-text",
		RatePerSecond: 2,
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if _, ok := svc.(*ratelimit.EmbeddingService); !ok {
		t.Errorf("expected rate limited service, got %T", svc)
	}
	if svc.Dimensions() != 768 {
		t.Errorf("expected 768 dimensions, got %d", svc.Dimensions())
	}
}

func TestCreateEmbeddingService_Unlimited(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if _, ok := svc.(*ratelimit.EmbeddingService); ok {
		t.Error("expected unwrapped service when no rate is set")
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("reachable service", func(t *testing.T) {
		server := newOllamaServer(t, http.StatusOK)

		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc == nil {
			t.Fatal("expected non-nil service")
		}
		svc.Close()
	})

	t.Run("unreachable service", func(t *testing.T) {
		server := newOllamaServer(t, http.StatusInternalServerError)

		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
		}
		if svc != nil {
			t.Error("expected nil service")
		}
	})

	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
		if err != nil || svc != nil {
			t.Errorf("expected nil, nil; got %v, %v", svc, err)
		}
	})
}

func TestCreateAnalyzer(t *testing.T) {
	lexiconPath := filepath.Join(t.TempDir(), "lexicon.tsv")
	if err := os.WriteFile(lexiconPath, []byte("gorączce\tgorączka\tNOUN\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("lexicon", func(t *testing.T) {
		a, err := CreateAnalyzer(&domain.AnalyzerSettings{Kind: domain.AnalyzerLexicon, LexiconPath: lexiconPath})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer a.Close()
		lex, ok := a.(*lexicon.Analyzer)
		if !ok {
			t.Fatalf("expected lexicon analyzer, got %T", a)
		}
		if lex.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", lex.Len())
		}
	})

	t.Run("empty kind defaults to lexicon", func(t *testing.T) {
		a, err := CreateAnalyzer(&domain.AnalyzerSettings{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := a.(*lexicon.Analyzer); !ok {
			t.Errorf("expected lexicon analyzer, got %T", a)
		}
	})

	t.Run("remote", func(t *testing.T) {
		a, err := CreateAnalyzer(&domain.AnalyzerSettings{Kind: domain.AnalyzerRemote, BaseURL: "http://nlp:8080"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := a.(*remote.Analyzer); !ok {
			t.Errorf("expected remote analyzer, got %T", a)
		}
	})

	t.Run("missing lexicon", func(t *testing.T) {
		_, err := CreateAnalyzer(&domain.AnalyzerSettings{
			Kind:        domain.AnalyzerLexicon,
			LexiconPath: filepath.Join(t.TempDir(), "missing.tsv"),
		})
		if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			t.Errorf("expected ErrAnalyzerUnavailable, got %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := CreateAnalyzer(&domain.AnalyzerSettings{Kind: "spacy"})
		if !errors.Is(err, domain.ErrUnsupportedType) {
			t.Errorf("expected ErrUnsupportedType, got %v", err)
		}
	})

	t.Run("nil settings", func(t *testing.T) {
		_, err := CreateAnalyzer(nil)
		if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			t.Errorf("expected ErrAnalyzerUnavailable, got %v", err)
		}
	})
}

func TestInitialise(t *testing.T) {
	t.Run("analyzer only", func(t *testing.T) {
		result, err := Initialise(domain.DefaultSettings(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer result.Close()
		if result.Analyzer == nil {
			t.Error("expected analyzer")
		}
		if result.EmbeddingService != nil {
			t.Error("expected no embedding service")
		}
	})

	t.Run("embedding available", func(t *testing.T) {
		server := newOllamaServer(t, http.StatusOK)
		settings := domain.DefaultSettings()
		settings.Embedding.BaseURL = server.URL

		result, err := Initialise(settings, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer result.Close()
		if result.EmbeddingService == nil {
			t.Error("expected embedding service")
		}
		if len(result.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("embedding unreachable falls back with warning", func(t *testing.T) {
		server := newOllamaServer(t, http.StatusServiceUnavailable)
		settings := domain.DefaultSettings()
		settings.Embedding.BaseURL = server.URL

		result, err := Initialise(settings, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer result.Close()
		if result.EmbeddingService != nil {
			t.Error("expected nil embedding service")
		}
		if len(result.Warnings) != 1 {
			t.Errorf("expected one warning, got %v", result.Warnings)
		}
	})

	t.Run("embedding not configured", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI}

		result, err := Initialise(settings, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "not configured") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("analyzer failure is fatal", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Analyzer.Kind = "unknown"

		if _, err := Initialise(settings, false); err == nil {
			t.Error("expected error")
		}
	})
}

// newAnalyzerServer answers the analyzer health endpoint used by Ping.
func newAnalyzerServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCreateAndValidateAnalyzer(t *testing.T) {
	t.Run("remote healthy", func(t *testing.T) {
		server := newAnalyzerServer(t, http.StatusOK)

		a, err := CreateAndValidateAnalyzer(&domain.AnalyzerSettings{Kind: domain.AnalyzerRemote, BaseURL: server.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer a.Close()
		if _, ok := a.(*remote.Analyzer); !ok {
			t.Errorf("expected remote analyzer, got %T", a)
		}
	})

	t.Run("remote not ready", func(t *testing.T) {
		server := newAnalyzerServer(t, http.StatusServiceUnavailable)

		a, err := CreateAndValidateAnalyzer(&domain.AnalyzerSettings{Kind: domain.AnalyzerRemote, BaseURL: server.URL})
		if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			t.Errorf("expected ErrAnalyzerUnavailable, got %v", err)
		}
		if a != nil {
			t.Error("expected nil analyzer")
		}
	})

	t.Run("remote unreachable", func(t *testing.T) {
		_, err := CreateAndValidateAnalyzer(&domain.AnalyzerSettings{
			Kind:    domain.AnalyzerRemote,
			BaseURL: "http://127.0.0.1:1",
		})
		if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			t.Errorf("expected ErrAnalyzerUnavailable, got %v", err)
		}
	})

	t.Run("lexicon needs no service", func(t *testing.T) {
		a, err := CreateAndValidateAnalyzer(&domain.AnalyzerSettings{Kind: domain.AnalyzerLexicon})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer a.Close()
	})
}

func TestInitialise_RemoteAnalyzerUnreachable(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Analyzer.Kind = domain.AnalyzerRemote
	settings.Analyzer.BaseURL = "http://127.0.0.1:1"

	_, err := Initialise(settings, false)
	if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
		t.Errorf("expected ErrAnalyzerUnavailable, got %v", err)
	}
}
