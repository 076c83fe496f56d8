package ollama

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed(t *testing.T) {
	srv := embeddingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
	})

	c := NewClient(Config{BaseURL: srv.URL, Model: "nomic-embed-text"})
	assert.Equal(t, "ollama/nomic-embed-text", c.Name())
	assert.Equal(t, 0, c.Dimension())

	vec, err := c.Embed("hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 3, c.Dimension())
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := embeddingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{1, 0}})
	})

	c := NewClient(Config{BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second})

	vec, err := c.Embed("hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, vec)
	assert.EqualValues(t, 2, calls.Load())
}

func TestEmbedClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := embeddingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such model", http.StatusNotFound)
	})

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"})

	_, err := c.Embed("hello")
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestEmbedEmptyEmbedding(t *testing.T) {
	srv := embeddingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{}})
	})

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"})

	_, err := c.Embed("hello")
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, "ollama/nomic-embed-text", c.Name())
}

func TestPrepareIsNoOp(t *testing.T) {
	c := NewClient(Config{Model: "m"})
	assert.NoError(t, c.Prepare([]string{"anything"}))
}
