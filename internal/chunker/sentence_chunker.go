package chunker

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"ragchat/internal/domain"
)

// SentenceChunker groups whole sentences into chunks with a sentence
// overlap. It is an alternative to the window chunker for prose
// corpora where cutting mid-sentence hurts retrieval quality.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

// NewSentenceChunker creates a sentence-based chunker. Out-of-range
// parameters fall back to defaults.
func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits the document into sentence groups. Text without
// sentence punctuation becomes a single chunk.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	locs := c.splitter.FindAllStringIndex(document.Text, -1)
	if len(locs) == 0 {
		trimmed := strings.TrimSpace(document.Text)
		if trimmed == "" {
			return nil, nil
		}
		return []domain.Chunk{{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":0",
			Index:      0,
			Start:      0,
			End:        utf8.RuneCountInString(document.Text),
			Text:       trimmed,
		}}, nil
	}
	sentences := make([]string, len(locs))
	for i, loc := range locs {
		sentences[i] = strings.TrimSpace(document.Text[loc[0]:loc[1]])
	}
	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Index:      idx,
			Start:      utf8.RuneCountInString(document.Text[:locs[i][0]]),
			End:        utf8.RuneCountInString(document.Text[:locs[end-1][1]]),
			Text:       strings.Join(sentences[i:end], " "),
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		idx++
	}
	return chunks, nil
}
