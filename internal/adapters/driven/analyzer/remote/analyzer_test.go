package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL + "/"})
}

func analyzeHandler(t *testing.T, tokens []token) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Text)

		_ = json.NewEncoder(w).Encode(analyzeResponse{Tokens: tokens})
	}
}

var feverTokens = []token{
	{Text: "Leczenie", Lemma: "Leczenie", POS: "NOUN"},
	{Text: "w", Lemma: "w", POS: "ADP"},
	{Text: "gorączce", Lemma: "gorączka", POS: "NOUN"},
	{Text: "stosować", Lemma: "stosować", POS: "VERB"},
}

func TestAnalyzer_Tokenize(t *testing.T) {
	a := newTestAnalyzer(t, analyzeHandler(t, feverTokens))

	got, err := a.Tokenize(context.Background(), "Leczenie w gorączce stosować")

	require.NoError(t, err)
	assert.Equal(t, []string{"Leczenie", "w", "gorączce", "stosować"}, got)
}

func TestAnalyzer_Lemmatize(t *testing.T) {
	a := newTestAnalyzer(t, analyzeHandler(t, feverTokens))

	got, err := a.Lemmatize(context.Background(), "Leczenie w gorączce stosować", "NOUN")

	require.NoError(t, err)
	assert.Equal(t, []string{"leczenie", "gorączka"}, got)
}

func TestAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "model not loaded", "status 500"},
		{"bad json", http.StatusOK, "{", "decode response"},
		{"error field", http.StatusOK, `{"error":"text too long"}`, "text too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := a.Lemmatize(context.Background(), "tekst", "NOUN")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyzer_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	a := New(Config{BaseURL: url})

	_, err := a.Tokenize(context.Background(), "tekst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAnalyzerUnavailable))

	err = a.Ping(context.Background())
	assert.True(t, errors.Is(err, domain.ErrAnalyzerUnavailable))
}

func TestAnalyzer_Ping(t *testing.T) {
	healthy := true
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	require.NoError(t, a.Ping(context.Background()))

	healthy = false
	err := a.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.NoError(t, a.Close())
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})

	assert.Equal(t, DefaultBaseURL, a.baseURL)
	assert.Equal(t, DefaultTimeout, a.client.Timeout)
}
