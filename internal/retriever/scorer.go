package retriever

import (
	"regexp"
	"strings"
)

// KeywordScorer scores a chunk by lexical overlap with the query:
// |query tokens ∩ chunk tokens| / (|query tokens| + 1). Tokens are
// lowercased unicode words; no stopword filtering is applied, so the
// signal tracks exactly what the user typed. The +1 in the denominator
// keeps single-token queries from saturating the score.
type KeywordScorer struct {
	tokenPattern *regexp.Regexp
}

// NewKeywordScorer creates the default lexical overlap scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:'\p{L}+)*|\p{N}+`),
	}
}

// Score returns the normalized keyword overlap between query and text.
// The result is in [0, 1) and deterministic for identical inputs.
func (s *KeywordScorer) Score(query, text string) float64 {
	qset := s.tokenSet(query)
	if len(qset) == 0 {
		return 0
	}
	overlap := 0
	for tok := range s.tokenSet(text) {
		if _, ok := qset[tok]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(qset)+1)
}

func (s *KeywordScorer) tokenSet(text string) map[string]struct{} {
	tokens := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
