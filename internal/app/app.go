// Package app assembles the configured components for the binaries.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ragchat/internal/chunker"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding/ollama"
	"ragchat/internal/embedding/openai"
	"ragchat/internal/embedding/tfidf"
	"ragchat/internal/llm"
	"ragchat/internal/retriever"
	"ragchat/internal/service"
	"ragchat/internal/summarizer"
)

// NewService builds the RAG service from the configuration.
func NewService(cfg *config.AppConfig, log *zap.Logger) (*service.Service, error) {
	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	ch, err := newChunker(cfg)
	if err != nil {
		return nil, err
	}
	r := retriever.New(emb, retriever.NewKeywordScorer())
	r.OverlapWeight = cfg.Retriever.OverlapWeight
	r.MinSimilarity = cfg.Retriever.MinSimilarity

	return service.New(ch, emb, r, summarizer.NewFrequencySummarizer(), log, service.Options{
		SnapshotPath: cfg.Index.Path,
		Candidates:   cfg.Retriever.Candidates,
		Final:        cfg.Retriever.Final,
		SummaryLen:   cfg.Summarizer.MaxSentences,
	}), nil
}

// NewGenerator builds the generation collaborator from the configuration.
func NewGenerator(cfg *config.AppConfig) domain.Generator {
	return llm.NewOllamaClient(llm.Config{
		BaseURL: cfg.LLM.URL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
}

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "ollama", "":
		oc := cfg.Embedder.Ollama
		if oc == nil {
			oc = &config.OllamaEmbedderConfig{}
		}
		return ollama.NewClient(ollama.Config{
			BaseURL: oc.URL,
			Model:   cfg.Embedder.Model,
			Timeout: time.Duration(oc.TimeoutSecs) * time.Second,
		}), nil
	case "openai":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{}
		}
		return openai.NewClient(openai.Config{
			APIKeyEnv: oc.APIKeyEnv,
			BaseURL:   oc.BaseURL,
			Model:     cfg.Embedder.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	default:
		return nil, fmt.Errorf("app: unknown embedder type %q", cfg.Embedder.Type)
	}
}

func newChunker(cfg *config.AppConfig) (domain.Chunker, error) {
	switch cfg.Chunker.Type {
	case "window", "":
		return chunker.NewWindowChunker(cfg.Chunker.WindowSize, cfg.Chunker.Overlap)
	case "sentence":
		return chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences), nil
	default:
		return nil, fmt.Errorf("app: unknown chunker type %q", cfg.Chunker.Type)
	}
}
