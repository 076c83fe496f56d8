// Package service owns the live vector index and drives the two flows
// around it: the one-shot ingestion batch (documents -> chunks ->
// vectors -> new index -> snapshot) and the read-only query path.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"ragchat/internal/domain"
	"ragchat/internal/index"
	"ragchat/internal/retriever"
)

// Options fixes the retrieval counts and the snapshot location.
type Options struct {
	SnapshotPath string
	Candidates   int
	Final        int
	SummaryLen   int
}

// Service wires the chunker, embedder, retriever and summarizer around
// the live index. The index reference is swapped atomically: a query
// never observes a partially built index, and a re-ingestion builds
// the replacement fully off to the side before publishing it.
type Service struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	retriever  *retriever.Retriever
	summarizer domain.Summarizer
	log        *zap.Logger
	opts       Options

	current atomic.Pointer[index.VectorIndex]
}

// IngestReport describes one ingestion batch.
type IngestReport struct {
	Documents int
	Skipped   int
	Chunks    int
	Summary   string
}

// New creates the service. The index starts empty; call LoadSnapshot
// or Ingest before serving queries.
func New(chunker domain.Chunker, embedder domain.Embedder, r *retriever.Retriever, summarizer domain.Summarizer, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		chunker:    chunker,
		embedder:   embedder,
		retriever:  r,
		summarizer: summarizer,
		log:        log,
		opts:       opts,
	}
	empty, _ := index.Build(nil, nil, embedder.Name())
	s.current.Store(empty)
	return s
}

// Ingest reads the .txt documents matched by paths (globs allowed),
// chunks and embeds them, builds a fresh index, swaps it in and saves
// the snapshot. A document that cannot be read or chunked is logged
// and skipped; one bad document never aborts the batch. An empty
// collection is valid and produces an index of size 0.
func (s *Service) Ingest(paths []string) (*IngestReport, error) {
	report := &IngestReport{}
	var documents []domain.Document
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			s.log.Warn("skipping malformed glob pattern", zap.String("pattern", p), zap.Error(err))
			report.Skipped++
			continue
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				s.log.Warn("skipping unreadable document", zap.String("path", m), zap.Error(err))
				report.Skipped++
				continue
			}
			// The path doubles as the document identifier so
			// citations point straight at the source file.
			documents = append(documents, domain.Document{
				ID:   m,
				Path: m,
				Text: string(data),
			})
		}
	}

	var chunks []domain.Chunk
	var corpus []string
	var fullText strings.Builder
	for _, d := range documents {
		cs, err := s.chunker.Chunk(d)
		if err != nil {
			s.log.Warn("skipping document that failed to chunk", zap.String("path", d.Path), zap.Error(err))
			report.Skipped++
			continue
		}
		report.Documents++
		for _, c := range cs {
			chunks = append(chunks, c)
			corpus = append(corpus, c.Text)
		}
		fullText.WriteString(d.Text)
		fullText.WriteString("\n")
	}
	report.Chunks = len(chunks)

	if len(chunks) > 0 {
		if err := s.embedder.Prepare(corpus); err != nil {
			return nil, fmt.Errorf("service: prepare embedder: %w", err)
		}
	}
	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		vec, err := s.embedder.Embed(c.Text)
		if err != nil {
			return nil, fmt.Errorf("service: embed chunk %s: %w", c.ChunkID, err)
		}
		vectors[i] = vec
	}

	ix, err := index.Build(chunks, vectors, s.embedder.Name())
	if err != nil {
		return nil, err
	}
	s.current.Store(ix)
	s.log.Info("index rebuilt",
		zap.Int("documents", report.Documents),
		zap.Int("chunks", report.Chunks),
		zap.Int("dimension", ix.Dimension()))

	if s.opts.SnapshotPath != "" {
		if err := ix.Save(s.opts.SnapshotPath); err != nil {
			return nil, fmt.Errorf("service: save snapshot: %w", err)
		}
	}

	if s.summarizer != nil && fullText.Len() > 0 {
		summary, err := s.summarizer.Summarize(fullText.String(), s.opts.SummaryLen)
		if err != nil {
			s.log.Warn("summarizer failed", zap.Error(err))
		} else {
			report.Summary = summary
		}
	}
	return report, nil
}

// LoadSnapshot restores the index from the configured snapshot and
// swaps it in. The error wraps domain.ErrIndexUnavailable when the
// snapshot is missing, corrupt, or was produced by a different
// embedding model; all three mean "re-ingest".
func (s *Service) LoadSnapshot() error {
	ix, err := index.Load(s.opts.SnapshotPath)
	if err != nil {
		return err
	}
	if ix.EmbedderName() != s.embedder.Name() {
		return fmt.Errorf("service: snapshot built with embedder %q, configured %q: %w",
			ix.EmbedderName(), s.embedder.Name(), domain.ErrIndexUnavailable)
	}
	// Corpus-derived embedders rebuild their vocabulary from the
	// snapshot's chunk texts; remote embedders treat this as a no-op.
	if ix.Len() > 0 {
		corpus := make([]string, 0, ix.Len())
		for _, c := range ix.Chunks() {
			corpus = append(corpus, c.Text)
		}
		if err := s.embedder.Prepare(corpus); err != nil {
			return fmt.Errorf("service: prepare embedder from snapshot: %w", err)
		}
	}
	s.current.Store(ix)
	s.log.Info("snapshot loaded",
		zap.String("path", s.opts.SnapshotPath),
		zap.Int("chunks", ix.Len()),
		zap.Int("dimension", ix.Dimension()))
	return nil
}

// Reload re-reads the snapshot, for picking up a re-ingestion done by
// another process. The swap is atomic.
func (s *Service) Reload() error { return s.LoadSnapshot() }

// Query retrieves the configured number of results for the query. An
// empty result is a valid "no relevant context" outcome, not an error.
func (s *Service) Query(query string) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("service: empty query")
	}
	return s.retriever.Retrieve(s.current.Load(), query, s.opts.Candidates, s.opts.Final)
}

// Size returns the number of chunks in the live index.
func (s *Service) Size() int { return s.current.Load().Len() }
