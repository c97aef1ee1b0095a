// Package ollama provides a score.Embedder backed by a local Ollama HTTP
// endpoint, so scoring can run fully offline against a pinned local model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/llmsentinel/score"
)

// Options configure the Ollama embedder.
type Options struct {
	// BaseURL of the Ollama server, e.g. "http://localhost:11434".
	BaseURL string
	// Model is the embedding model name, e.g. "nomic-embed-text".
	Model string
	// HTTPClient allows injecting a custom client; a 10s-timeout client is
	// used by default.
	HTTPClient *http.Client
}

// Embedder calls Ollama's /api/embeddings endpoint.
type Embedder struct {
	opts Options
}

// NewEmbedder creates an Ollama-backed Embedder.
func NewEmbedder(optFns ...func(o *Options)) *Embedder {
	opts := Options{
		BaseURL:    "http://localhost:11434",
		Model:      "nomic-embed-text",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Embedder{opts: opts}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed implements score.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: e.opts.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.BaseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama embeddings: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama embeddings: decode response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embeddings: empty embedding")
	}
	return out.Embedding, nil
}

var _ score.Embedder = (*Embedder)(nil)
