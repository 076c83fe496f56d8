package domain

import (
	"errors"
	"fmt"
)

// ErrIndexUnavailable signals a missing or unreadable index snapshot.
// It is recoverable: the caller should trigger a re-ingestion instead
// of treating it as fatal.
var ErrIndexUnavailable = errors.New("vector index unavailable, re-ingest required")

// DimensionMismatchError reports vectors of inconsistent length within
// an index, or a query vector that does not match the index dimension.
// It is always fatal to the current operation; vectors are never
// truncated or padded.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}
