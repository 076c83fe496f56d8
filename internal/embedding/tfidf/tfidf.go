// Package tfidf is an offline, deterministic embedder. It needs no
// external model: vectors are TF-IDF weights over a vocabulary built
// from the ingested corpus during Prepare. Useful when no embedding
// server is available, and for exercising the retrieval pipeline in
// tests.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Embedder vectorizes text as L2-normalized TF-IDF weights.
// Prepare must run over the corpus before Embed.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:'\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and smoothed IDF weights from the
// corpus. The vocabulary is sorted so identical corpora always produce
// identical vector layouts.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return errors.New("tfidf: no tokens found in corpus")
	}
	sort.Strings(terms)
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size, the vector dimensionality.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector for the text. Text
// with no in-vocabulary tokens embeds to the zero vector, which the
// index treats as similarity 0 against everything.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf: embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	// Accumulate in slice order so identical input always yields
	// bit-identical vectors.
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range tf {
			vec[idx] /= norm
		}
	}
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
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
