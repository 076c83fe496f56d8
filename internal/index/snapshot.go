package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"ragchat/internal/domain"
)

// snapshot is the on-disk form of a VectorIndex. gob gives a compact
// binary round-trip of the full collection in one file.
type snapshot struct {
	Embedder  string
	Dimension int
	Chunks    []domain.Chunk
	Vectors   [][]float64
}

// Save writes the full index to path as a gob snapshot. The file is
// written to a temporary sibling first and renamed into place so a
// crash mid-write never leaves a truncated snapshot behind.
func (ix *VectorIndex) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("index: create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("index: create snapshot: %w", err)
	}
	snap := snapshot{
		Embedder:  ix.embedder,
		Dimension: ix.dimension,
		Chunks:    ix.chunks,
		Vectors:   ix.vectors,
	}
	if err := gob.NewEncoder(file).Encode(&snap); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("index: encode snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("index: close snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a gob snapshot back into a VectorIndex. A missing,
// unreadable, or corrupt file returns an error wrapping
// domain.ErrIndexUnavailable so the caller can trigger re-ingestion
// instead of crashing.
func Load(path string) (*VectorIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("index: open snapshot %s: %v: %w", path, err, domain.ErrIndexUnavailable)
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("index: decode snapshot %s: %v: %w", path, err, domain.ErrIndexUnavailable)
	}
	if len(snap.Chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("index: snapshot %s is inconsistent: %w", path, domain.ErrIndexUnavailable)
	}
	for _, v := range snap.Vectors {
		if len(v) != snap.Dimension {
			return nil, fmt.Errorf("index: snapshot %s has mixed dimensions: %w", path, domain.ErrIndexUnavailable)
		}
	}
	return &VectorIndex{
		embedder:  snap.Embedder,
		dimension: snap.Dimension,
		chunks:    snap.Chunks,
		vectors:   snap.Vectors,
	}, nil
}
