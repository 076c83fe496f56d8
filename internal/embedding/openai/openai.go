// Package openai embeds text through the OpenAI embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// Client wraps the go-openai embeddings call behind the Embedder
// interface. Dimensionality is discovered from the first call.
type Client struct {
	client    *goopenai.Client
	model     string
	timeout   time.Duration
	dimension int
}

// Config configures the OpenAI embeddings client. APIKeyEnv names the
// environment variable holding the key; the key itself never appears
// in config files.
type Config struct {
	APIKeyEnv string
	BaseURL   string
	Model     string
	Timeout   time.Duration
}

// NewClient creates an OpenAI embeddings client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("openai: missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	clientCfg := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:  goopenai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: t,
	}, nil
}

// Name returns the identifier of this embedder implementation,
// qualified by the model so snapshots from other models are rejected.
func (c *Client) Name() string { return "openai/" + c.model }

// Prepare is a no-op; remote embedding needs no corpus pass.
func (c *Client) Prepare(corpus []string) error { return nil }

// Dimension returns the vector length observed on the first Embed
// call, or 0 before any call succeeded.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("openai embeddings: no embedding returned")
	}
	src := resp.Data[0].Embedding
	vec := make([]float64, len(src))
	for i, v := range src {
		vec[i] = float64(v)
	}
	if c.dimension == 0 {
		c.dimension = len(vec)
	}
	return vec, nil
}
