// Package config loads and validates the application configuration:
// a YAML file with defaults, plus environment variables for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how documents are split into chunks.
// WindowSize must be strictly greater than Overlap.
type ChunkerConfig struct {
	Type              string `yaml:"type" validate:"omitempty,oneof=window sentence"`
	WindowSize        int    `yaml:"window_size" validate:"gtfield=Overlap"`
	Overlap           int    `yaml:"overlap" validate:"gte=0"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk" validate:"gte=0"`
	OverlapSentences  int    `yaml:"overlap_sentences" validate:"gte=0"`
}

// OllamaEmbedderConfig holds connection details for Ollama embeddings.
type OllamaEmbedderConfig struct {
	URL         string `yaml:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

// OpenAIEmbedderConfig holds connection details for OpenAI embeddings.
// The API key is read from the environment, never from the file.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

// EmbedderConfig selects and configures the embedding model. An empty
// Model selects the client's own default.
type EmbedderConfig struct {
	Type   string                `yaml:"type" validate:"omitempty,oneof=ollama openai tfidf"`
	Model  string                `yaml:"model"`
	Ollama *OllamaEmbedderConfig `yaml:"ollama,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// RetrieverConfig sets the candidate and final result counts and the
// re-ranking knobs. Final may not exceed Candidates. Explicit zeros
// are honored: zero counts yield empty results, a zero overlap weight
// ranks purely by similarity.
type RetrieverConfig struct {
	Candidates    int     `yaml:"candidates" validate:"gte=0"`
	Final         int     `yaml:"final" validate:"gte=0,ltefield=Candidates"`
	MinSimilarity float64 `yaml:"min_similarity" validate:"gte=0,lte=1"`
	OverlapWeight float64 `yaml:"overlap_weight" validate:"gte=0,lte=1"`
}

// IndexConfig locates the persisted index snapshot.
type IndexConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LLMConfig configures the generation collaborator.
type LLMConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

// SummarizerConfig bounds the post-ingest corpus digest.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences" validate:"gte=0"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Index      IndexConfig      `yaml:"index"`
	LLM        LLMConfig        `yaml:"llm"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from path. A missing file yields the defaults.
// The file is unmarshalled over the defaults, so omitted keys keep
// their default values while explicitly set zeros are preserved.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/ragchat/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the structural constraints: window_size > overlap,
// final <= candidates, non-negative counts.
func (c *AppConfig) Validate() error {
	return validator.New().Struct(c)
}

// Default returns the configuration used when no file exists.
func Default() *AppConfig {
	return &AppConfig{
		Chunker: ChunkerConfig{
			Type:              "window",
			WindowSize:        500,
			Overlap:           100,
			SentencesPerChunk: 5,
			OverlapSentences:  1,
		},
		Embedder: EmbedderConfig{
			Type: "ollama",
			Ollama: &OllamaEmbedderConfig{
				URL:         "http://localhost:11434",
				TimeoutSecs: 30,
			},
		},
		Retriever: RetrieverConfig{
			Candidates:    5,
			Final:         3,
			MinSimilarity: 0,
			OverlapWeight: 0.3,
		},
		Index: IndexConfig{Path: "index.gob"},
		LLM: LLMConfig{
			URL:         "http://localhost:11434",
			Model:       "llama3.2",
			TimeoutSecs: 120,
		},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragchat", "config.yaml"), nil
}
