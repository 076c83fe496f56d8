// Package ollama embeds text through a locally running Ollama server.
package ollama

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the Ollama /api/embeddings endpoint. Dimensionality is
// discovered from the first successful call and reported through
// Dimension afterwards.
type Client struct {
	baseURL    string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// Config configures the Ollama embeddings client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates an embeddings client for a local Ollama server.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}
}

// Name returns the identifier of this embedder implementation,
// qualified by the model so snapshots from other models are rejected.
func (c *Client) Name() string { return "ollama/" + c.model }

// Prepare is a no-op; remote embedding needs no corpus pass.
func (c *Client) Prepare(corpus []string) error { return nil }

// Dimension returns the vector length observed on the first Embed
// call, or 0 before any call succeeded.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for the given text, retrying
// transient server errors with exponential backoff.
func (c *Client) Embed(text string) ([]float64, error) {
	type reqBody struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	url := c.baseURL + "/api/embeddings"
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay(attempt))
		}
		data, _ := json.Marshal(reqBody{Model: c.model, Prompt: text})
		resp, err := c.client.Post(url, "application/json", bytes.NewReader(data))
		if err != nil {
			lastErr = err
			continue
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("ollama embeddings failed: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("ollama embeddings failed: %s: %s", resp.Status, payload)
		}
		var out struct {
			Embedding []float64 `json:"embedding"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, fmt.Errorf("ollama embeddings: decode response: %w", err)
		}
		if len(out.Embedding) == 0 {
			return nil, errors.New("ollama embeddings: no embedding returned")
		}
		if c.dimension == 0 {
			c.dimension = len(out.Embedding)
		}
		return out.Embedding, nil
	}
	return nil, fmt.Errorf("ollama embeddings: retries exhausted: %w", lastErr)
}

func retryDelay(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
