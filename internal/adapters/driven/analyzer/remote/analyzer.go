// Package remote provides an analyzer adapter for an HTTP NLP service.
//
// The service accepts POST /analyze with {"text": "..."} and answers
// {"tokens": [{"text": "...", "lemma": "...", "pos": "NOUN"}, ...]} with
// universal part-of-speech tags. GET /health answers 200 when ready.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the remote analyzer.
type Config struct {
	// BaseURL is the service URL (default: http://localhost:8080).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Analyzer calls the NLP service for every request.
type Analyzer struct {
	client  *http.Client
	baseURL string
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type token struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
}

type analyzeResponse struct {
	Tokens []token `json:"tokens"`
	Error  string  `json:"error,omitempty"`
}

// New creates a remote analyzer.
func New(cfg Config) *Analyzer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Analyzer{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Tokenize returns the token texts reported by the service.
func (a *Analyzer) Tokenize(ctx context.Context, text string) ([]string, error) {
	tokens, err := a.analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out, nil
}

// Lemmatize returns the lower-cased lemmas of the tokens tagged pos.
func (a *Analyzer) Lemmatize(ctx context.Context, text, pos string) ([]string, error) {
	tokens, err := a.analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.POS == pos {
			out = append(out, strings.ToLower(t.Lemma))
		}
	}
	return out, nil
}

func (a *Analyzer) analyze(ctx context.Context, text string) ([]token, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result analyzeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("analyzer error: %s", result.Error)
	}
	return result.Tokens, nil
}

// Ping checks that the service is ready.
func (a *Analyzer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("analyzer: failed to create ping request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("analyzer: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analyzer: %w: status %d", domain.ErrAnalyzerUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (a *Analyzer) Close() error {
	a.client.CloseIdleConnections()
	return nil
}
