package chunker

import (
	"errors"
	"strconv"
	"strings"

	"ragchat/internal/domain"
)

// WindowChunker splits text into fixed-size character windows with a
// fixed overlap, so consecutive chunks share a suffix/prefix region
// and a retrieved chunk carries some neighboring context. Offsets are
// rune-based to keep multi-byte text intact.
type WindowChunker struct {
	windowSize int
	overlap    int
}

// NewWindowChunker creates a window chunker. windowSize must be
// strictly greater than overlap, and overlap must be non-negative.
func NewWindowChunker(windowSize, overlap int) (*WindowChunker, error) {
	if overlap < 0 {
		return nil, errors.New("chunker: overlap must be non-negative")
	}
	if windowSize <= overlap {
		return nil, errors.New("chunker: window size must exceed overlap")
	}
	return &WindowChunker{windowSize: windowSize, overlap: overlap}, nil
}

// Chunk splits the document into successive windows, advancing the
// start offset by windowSize-overlap each step. The final window may
// be shorter and is dropped if blank. An empty document yields no
// chunks and no error.
func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	runes := []rune(document.Text)
	if strings.TrimSpace(document.Text) == "" {
		return nil, nil
	}
	step := c.windowSize - c.overlap
	var chunks []domain.Chunk
	idx := 0
	for start := 0; start < len(runes); start += step {
		end := start + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Index:      idx,
			Start:      start,
			End:        end,
			Text:       string(runes[start:end]),
		})
		idx++
		if end == len(runes) {
			break
		}
	}
	// The trailing window can land on pure whitespace; keep it only if
	// it has content after trimming.
	if n := len(chunks); n > 0 && strings.TrimSpace(chunks[n-1].Text) == "" {
		chunks = chunks[:n-1]
	}
	return chunks, nil
}
