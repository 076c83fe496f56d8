// Package summarizer produces the short corpus digest shown after
// ingestion. Sentences are ranked by normalized token frequency and
// the top ones are returned in document order.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer ranks sentences by how frequent their tokens are
// across the whole text, stopwords excluded.
type FrequencySummarizer struct {
	tokenPattern *regexp.Regexp
	sentenceRe   *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:'\p{L}+)*`),
		sentenceRe:   regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:    defaultStopwords(),
	}
}

// Summarize returns up to maxSentences of the highest-scoring
// sentences, kept in their original order. Text without sentence
// punctuation is returned trimmed as-is.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranking := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok]
		}
		// Length normalization keeps long sentences from dominating.
		if n := float64(len(toks)); n > 0 {
			total /= math.Sqrt(n)
		}
		ranking[i] = scored{i, total}
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].score > ranking[j].score })
	if maxSentences > len(ranking) {
		maxSentences = len(ranking)
	}

	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = ranking[i].idx
	}
	sort.Ints(selected)
	parts := make([]string, 0, len(selected))
	for _, idx := range selected {
		parts = append(parts, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(parts, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"for", "to", "of", "in", "on", "at", "by", "with", "as",
		"is", "are", "was", "were", "be", "been", "being",
		"it", "this", "that", "these", "those", "from",
		"up", "down", "over", "under", "into", "out", "off",
		"about", "between", "through", "during", "before", "after",
		"above", "below", "again", "further", "than", "so", "such",
		"own", "same", "too", "very", "can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
