// Package llm is the generation collaborator: it receives the final
// ranked retrieval results and turns them plus the question into an
// answer. The retrieval core makes no assumption beyond this narrow
// interface.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ragchat/internal/domain"
)

// OllamaClient answers questions through a local Ollama server's
// /api/generate endpoint, non-streaming.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// Config configures the Ollama generation client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaClient creates a generation client for a local Ollama server.
func NewOllamaClient(cfg Config) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 2 * time.Minute
	}
	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Answer asks the model to answer from the retrieved context. Results
// arrive in final rank order with source identifiers intact. With no
// results the model is told the context is empty and answers from
// general knowledge, saying so.
func (c *OllamaClient) Answer(ctx context.Context, question string, results []domain.RetrievalResult) (string, error) {
	var b strings.Builder
	b.WriteString("Use the provided context to answer the question accurately. ")
	b.WriteString("If the context does not contain relevant information, say so and answer from general knowledge.\n\n")
	if len(results) == 0 {
		b.WriteString("Context documents: (none found)\n\n")
	} else {
		b.WriteString("Context documents:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "[%s]\n%s\n\n", r.Chunk.DocumentID, r.Chunk.Text)
		}
	}
	fmt.Fprintf(&b, "Question: %s\n\nAnswer:", question)

	type generateRequest struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}
	data, err := json.Marshal(generateRequest{Model: c.model, Prompt: b.String()})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: generate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: generate failed: %s: %s", resp.Status, body)
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}
