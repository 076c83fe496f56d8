package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/chunker"
	"ragchat/internal/domain"
	"ragchat/internal/embedding/tfidf"
	"ragchat/internal/retriever"
	"ragchat/internal/summarizer"
)

func newTestService(t *testing.T, snapshotPath string) *Service {
	t.Helper()
	emb := tfidf.NewEmbedder()
	ch, err := chunker.NewWindowChunker(500, 100)
	require.NoError(t, err)
	return New(ch, emb, retriever.New(emb, retriever.NewKeywordScorer()),
		summarizer.NewFrequencySummarizer(), nil, Options{
			SnapshotPath: snapshotPath,
			Candidates:   5,
			Final:        3,
			SummaryLen:   2,
		})
}

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestIngestAndQuery(t *testing.T) {
	dir := t.TempDir()
	cats := writeDoc(t, dir, "cats.txt", "The cat sat on the mat. Cats nap most of the day.")
	dogs := writeDoc(t, dir, "dogs.txt", "Dogs are loyal companions. Dogs enjoy long walks.")

	svc := newTestService(t, filepath.Join(dir, "index.gob"))
	report, err := svc.Ingest([]string{cats, dogs})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Chunks)
	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, 2, svc.Size())

	results, err := svc.Query("Where did the cat sit?")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, cats, results[0].Chunk.DocumentID)
}

func TestIngestGlob(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "The cat sat on the mat.")
	writeDoc(t, dir, "b.txt", "Dogs are loyal companions.")
	writeDoc(t, dir, "notes.md", "not a text file, must be ignored")

	svc := newTestService(t, filepath.Join(dir, "index.gob"))
	report, err := svc.Ingest([]string{filepath.Join(dir, "*")})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, svc.Size())
}

func TestIngestSkipsUnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.txt", "The cat sat on the mat.")
	missing := filepath.Join(dir, "missing.txt")

	svc := newTestService(t, filepath.Join(dir, "index.gob"))
	report, err := svc.Ingest([]string{good, missing})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, svc.Size())
}

func TestIngestSkipsMalformedGlob(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.txt", "The cat sat on the mat.")

	svc := newTestService(t, filepath.Join(dir, "index.gob"))
	report, err := svc.Ingest([]string{good, "["})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, svc.Size())
}

func TestIngestEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "index.gob")

	svc := newTestService(t, snapshot)
	report, err := svc.Ingest(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, 0, report.Chunks)
	assert.Equal(t, 0, svc.Size())
	assert.FileExists(t, snapshot)

	results, err := svc.Query("anything at all")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIngestIdempotent(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "corpus.txt", "The cat sat on the mat. Dogs are loyal companions.")
	snapshot := filepath.Join(dir, "index.gob")

	svc := newTestService(t, snapshot)
	_, err := svc.Ingest([]string{doc})
	require.NoError(t, err)
	first, err := os.ReadFile(snapshot)
	require.NoError(t, err)

	_, err = svc.Ingest([]string{doc})
	require.NoError(t, err)
	second, err := os.ReadFile(snapshot)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadSnapshotRestoresIndex(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "corpus.txt", "The cat sat on the mat.")
	snapshot := filepath.Join(dir, "index.gob")

	_, err := newTestService(t, snapshot).Ingest([]string{doc})
	require.NoError(t, err)

	// A fresh process: same configuration, nothing in memory yet.
	svc := newTestService(t, snapshot)
	require.Equal(t, 0, svc.Size())
	require.NoError(t, svc.LoadSnapshot())
	assert.Equal(t, 1, svc.Size())

	results, err := svc.Query("Where did the cat sit?")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, doc, results[0].Chunk.DocumentID)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "nope.gob"))
	err := svc.LoadSnapshot()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexUnavailable))
	assert.Equal(t, 0, svc.Size())
}

func TestLoadSnapshotEmbedderMismatch(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "corpus.txt", "The cat sat on the mat.")
	snapshot := filepath.Join(dir, "index.gob")

	_, err := newTestService(t, snapshot).Ingest([]string{doc})
	require.NoError(t, err)

	emb := &namedEmbedder{name: "other/model"}
	ch, err := chunker.NewWindowChunker(500, 100)
	require.NoError(t, err)
	svc := New(ch, emb, retriever.New(emb, retriever.NewKeywordScorer()), nil, nil,
		Options{SnapshotPath: snapshot, Candidates: 5, Final: 3})

	err = svc.LoadSnapshot()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexUnavailable))
	assert.Equal(t, 0, svc.Size())
}

func TestQueryRejectsBlank(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "index.gob"))
	_, err := svc.Query("   ")
	require.Error(t, err)
}

func TestReloadPicksUpReingestion(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "index.gob")
	doc := writeDoc(t, dir, "one.txt", "The cat sat on the mat.")

	reader := newTestService(t, snapshot)
	writer := newTestService(t, snapshot)

	_, err := writer.Ingest([]string{doc})
	require.NoError(t, err)
	require.NoError(t, reader.Reload())
	assert.Equal(t, 1, reader.Size())

	more := writeDoc(t, dir, "two.txt", "Dogs are loyal companions.")
	_, err = writer.Ingest([]string{doc, more})
	require.NoError(t, err)
	require.NoError(t, reader.Reload())
	assert.Equal(t, 2, reader.Size())
}

// namedEmbedder only reports a name, for exercising the snapshot
// model check.
type namedEmbedder struct{ name string }

func (n *namedEmbedder) Name() string                  { return n.name }
func (n *namedEmbedder) Prepare(corpus []string) error { return nil }
func (n *namedEmbedder) Dimension() int                { return 0 }
func (n *namedEmbedder) Embed(text string) ([]float64, error) {
	return nil, errors.New("not implemented")
}
