// Package index holds the in-memory vector index: every embedded chunk
// of the corpus plus the dimensionality they share. Search is an exact
// linear scan over all stored vectors, O(n*D) per query. That is the
// main scalability limit and a deliberate choice: at personal-corpus
// scale an exact scan beats an approximate structure on both
// correctness and simplicity.
package index

import (
	"errors"
	"math"
	"sort"

	"ragchat/internal/domain"
)

// VectorIndex is an ordered, read-only collection of chunks and their
// vectors. It is wholly replaced on re-ingestion; there are no partial
// updates. Build a new one off to the side and swap the reference.
type VectorIndex struct {
	embedder  string
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
}

// Hit is one search result: a stored chunk with its vector and the
// cosine similarity against the query.
type Hit struct {
	Chunk      domain.Chunk
	Vector     []float64
	Similarity float64
}

// Build creates an index from parallel chunk and vector slices.
// All vectors must share one dimensionality; mixing lengths returns a
// *domain.DimensionMismatchError. Empty input yields a valid empty
// index. embedderName records which model produced the vectors so a
// later load can reject snapshots from a different model.
func Build(chunks []domain.Chunk, vectors [][]float64, embedderName string) (*VectorIndex, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.New("index: chunks and vectors length mismatch")
	}
	ix := &VectorIndex{embedder: embedderName}
	if len(vectors) == 0 {
		return ix, nil
	}
	ix.dimension = len(vectors[0])
	for _, v := range vectors {
		if len(v) != ix.dimension {
			return nil, &domain.DimensionMismatchError{Want: ix.dimension, Got: len(v)}
		}
	}
	ix.chunks = append([]domain.Chunk(nil), chunks...)
	ix.vectors = append([][]float64(nil), vectors...)
	return ix, nil
}

// Len returns the number of stored chunks.
func (ix *VectorIndex) Len() int { return len(ix.chunks) }

// Dimension returns the vector dimensionality the index was built with.
func (ix *VectorIndex) Dimension() int { return ix.dimension }

// EmbedderName returns the identifier of the model that produced the
// stored vectors.
func (ix *VectorIndex) EmbedderName() string { return ix.embedder }

// Chunks returns the stored chunks in insertion order. Callers must
// treat the slice as read-only.
func (ix *VectorIndex) Chunks() []domain.Chunk { return ix.chunks }

// Search scans every stored vector and returns the k highest-scoring
// chunks by cosine similarity, descending. Ties keep insertion order.
// k larger than the index returns everything; an empty index or
// non-positive k returns an empty result without error. A query of the
// wrong length is a *domain.DimensionMismatchError.
func (ix *VectorIndex) Search(query []float64, k int) ([]Hit, error) {
	if ix.Len() == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dimension {
		return nil, &domain.DimensionMismatchError{Want: ix.dimension, Got: len(query)}
	}
	order := make([]int, len(ix.vectors))
	scores := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		order[i] = i
		scores[i] = Cosine(query, v)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > len(order) {
		k = len(order)
	}
	hits := make([]Hit, 0, k)
	for _, j := range order[:k] {
		hits = append(hits, Hit{Chunk: ix.chunks[j], Vector: ix.vectors[j], Similarity: scores[j]})
	}
	return hits, nil
}

// Cosine returns the cosine similarity of two vectors: their dot
// product divided by the product of their magnitudes. A zero-magnitude
// vector (or mismatched lengths) yields 0 rather than dividing by zero.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
