package domain

// Document is a single plain-text source loaded into the system.
// It is immutable after ingestion; only the Chunker consumes it.
type Document struct {
	ID   string
	Path string
	Text string
}

// Chunk is a contiguous window of a document's text used as the unit
// of retrieval. Start and End are rune offsets into the document.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Index      int
	Start      int
	End        int
	Text       string
}

// RetrievalResult is one ranked chunk returned for a query.
// Similarity is the cosine score from the index scan; Rerank is the
// combined score the final ordering was produced with. Results are
// ephemeral and never persisted.
type RetrievalResult struct {
	Chunk      Chunk
	Similarity float64
	Rerank     float64
}
