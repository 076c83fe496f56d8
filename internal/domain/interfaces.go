package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Dimensionality is discovered from the first Embed call and must stay
// stable afterwards. Implementations may require a preparation phase
// over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Scorer assigns a lexical relevance score to a chunk text for a query.
// Scores must be deterministic for identical inputs.
type Scorer interface {
	Score(query, text string) float64
}

// Generator turns a question and its retrieved context into an answer.
// It must still produce an answer when results is empty.
type Generator interface {
	Answer(ctx context.Context, question string, results []RetrievalResult) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
