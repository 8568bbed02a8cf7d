package papers

import (
	"errors"
	"fmt"
)

// ErrEmptyIngestion is returned when a non-empty input set yields zero
// usable records.
var ErrEmptyIngestion = errors.New("ingestion produced no usable records")

// ExtractionError reports a single file that could not be parsed. It is
// collected per-file by the ingestion pipeline and never aborts a batch.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IndexLoadError reports a missing or malformed index file at load or
// reload time. The store keeps its previous snapshot when this occurs.
type IndexLoadError struct {
	Path string
	Err  error
}

func (e *IndexLoadError) Error() string {
	return fmt.Sprintf("failed to load index %s: %s", e.Path, e.Err)
}

func (e *IndexLoadError) Unwrap() error {
	return e.Err
}

// BodyUnavailableError reports a failed on-demand full-text fetch. It is
// scoped to the single request that asked for the body.
type BodyUnavailableError struct {
	Path string
	Err  error
}

func (e *BodyUnavailableError) Error() string {
	return fmt.Sprintf("body unavailable for %s: %s", e.Path, e.Err)
}

func (e *BodyUnavailableError) Unwrap() error {
	return e.Err
}
