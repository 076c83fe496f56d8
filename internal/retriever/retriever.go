// Package retriever turns a query string into a ranked list of chunks:
// embed the query, take the top candidates from the vector index by
// cosine similarity, then re-rank that candidate set with a lexical
// overlap signal before truncating to the final count.
package retriever

import (
	"fmt"
	"sort"

	"ragchat/internal/domain"
	"ragchat/internal/index"
)

// DefaultOverlapWeight is the share of the lexical overlap score in
// the combined rank. The combined score is
//
//	(1-w)*similarity + w*overlap
//
// with both weights positive, so a candidate that beats another on
// both similarity and overlap always outranks it, and ties fall back
// to candidate order. Ordering is deterministic for identical inputs.
const DefaultOverlapWeight = 0.3

// Retriever retrieves and re-ranks chunks for a query. The index is
// passed per call so a re-ingestion can swap it atomically underneath.
type Retriever struct {
	embedder domain.Embedder
	scorer   domain.Scorer

	// OverlapWeight is the w in the combined rank above.
	OverlapWeight float64
	// MinSimilarity drops candidates below the threshold before
	// re-ranking. Zero keeps everything.
	MinSimilarity float64
}

// New creates a retriever with the default keyword scorer weighting.
func New(embedder domain.Embedder, scorer domain.Scorer) *Retriever {
	return &Retriever{
		embedder:      embedder,
		scorer:        scorer,
		OverlapWeight: DefaultOverlapWeight,
	}
}

// Retrieve embeds the query, pulls kCandidates from the index by
// similarity, re-ranks them by the combined score, and returns at most
// kFinal results in final rank order. kFinal clamps to the candidate
// count. An empty or nil index, or kCandidates/kFinal of zero, yields
// an empty result and no error; "no relevant context" is a valid
// outcome the generation stage must handle.
func (r *Retriever) Retrieve(ix *index.VectorIndex, query string, kCandidates, kFinal int) ([]domain.RetrievalResult, error) {
	if ix == nil || ix.Len() == 0 || kCandidates <= 0 || kFinal <= 0 {
		return nil, nil
	}
	vec, err := r.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}
	hits, err := ix.Search(vec, kCandidates)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		if r.MinSimilarity > 0 && h.Similarity < r.MinSimilarity {
			continue
		}
		overlap := r.scorer.Score(query, h.Chunk.Text)
		results = append(results, domain.RetrievalResult{
			Chunk:      h.Chunk,
			Similarity: h.Similarity,
			Rerank:     (1-r.OverlapWeight)*h.Similarity + r.OverlapWeight*overlap,
		})
	}
	// Stable: equal combined scores keep the similarity order the
	// index produced.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rerank > results[j].Rerank
	})
	if kFinal > len(results) {
		kFinal = len(results)
	}
	return results[:kFinal], nil
}
