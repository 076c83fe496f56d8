package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordScorerOverlap(t *testing.T) {
	s := NewKeywordScorer()

	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{
			name:  "full overlap",
			query: "cat mat",
			text:  "the cat sat on the mat",
			want:  2.0 / 3.0, // 2 shared / (2 query tokens + 1)
		},
		{
			name:  "partial overlap",
			query: "where did the cat sit",
			text:  "The cat sat on the mat.",
			want:  2.0 / 6.0, // {the, cat} / (5 + 1)
		},
		{
			name:  "no overlap",
			query: "quantum physics",
			text:  "Dogs are loyal companions.",
			want:  0,
		},
		{
			name:  "case insensitive",
			query: "CAT",
			text:  "cat",
			want:  1.0 / 2.0,
		},
		{
			name:  "duplicates count once",
			query: "cat cat cat",
			text:  "cat",
			want:  1.0 / 2.0,
		},
		{
			name:  "empty query",
			query: "",
			text:  "anything",
			want:  0,
		},
		{
			name:  "empty text",
			query: "cat",
			text:  "",
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.query, tt.text), 1e-12)
		})
	}
}

func TestKeywordScorerDeterministic(t *testing.T) {
	s := NewKeywordScorer()
	query := "where did the cat sit"
	text := "The cat sat on the mat. Dogs bark."
	first := s.Score(query, text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(query, text))
	}
}
