package papers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/econsearch/papers-mcp/internal/domain"
)

const (
	// MaxWorkers caps the ingestion worker pool regardless of the
	// requested worker count, so a large batch cannot exhaust file
	// handles.
	MaxWorkers = 16

	// PDFExtension is the file extension selected for ingestion.
	PDFExtension = ".pdf"
)

// Extractor is the external parsing capability consumed by the
// pipeline and the lazy body reader.
type Extractor interface {
	// Extract parses one file into a PaperRecord, or fails for files
	// that cannot be read at all.
	Extract(ctx context.Context, path string) (domain.PaperRecord, error)

	// FullText returns the document's plain text. maxPages limits how
	// many pages are read; zero means all.
	FullText(ctx context.Context, path string, maxPages int) (string, error)
}

// Failure describes one file the pipeline could not process.
type Failure struct {
	Path  string `json:"path"`
	Cause string `json:"cause"`
}

// IngestReport is the caller-visible outcome of one ingestion batch.
// Failures are always reported alongside successes, never swallowed.
type IngestReport struct {
	TotalFiles   int       `json:"total_files"`
	SuccessCount int       `json:"success_count"`
	Failures     []Failure `json:"failures,omitempty"`
}

// Pipeline extracts metadata from every PDF under a directory using a
// bounded worker pool and persists the resulting record set as the
// index file, replacing any previous contents.
type Pipeline struct {
	extractor Extractor
	indexPath string
}

// NewPipeline creates an ingestion pipeline writing to indexPath.
func NewPipeline(extractor Extractor, indexPath string) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		indexPath: indexPath,
	}
}

// DefaultWorkers is the worker count used when none is configured.
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n < 4 {
		return n
	}
	return 4
}

// clampWorkers normalizes a requested worker count to [1, MaxWorkers].
func clampWorkers(workers int) int {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}

// Run ingests every PDF under dir. A failure on one file never aborts
// the batch. The index file is written only after the whole batch
// completes; a canceled context discards partial results instead of
// persisting them. When a non-empty input set yields zero records, the
// report is returned together with ErrEmptyIngestion and the previous
// index file is left untouched.
func (p *Pipeline) Run(ctx context.Context, dir string, workers int) (*IngestReport, error) {
	files, err := listPDFs(dir)
	if err != nil {
		return nil, err
	}

	workers = clampWorkers(workers)
	slog.Info("Starting ingestion", "dir", dir, "files", len(files), "workers", workers)

	var (
		mu       sync.Mutex
		records  []domain.PaperRecord
		failures []Failure
	)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			if ctx.Err() != nil {
				return
			}

			record, err := p.extractor.Extract(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fail := &ExtractionError{Path: path, Err: err}
				slog.Warn("Extraction failed", "path", fail.Path, "error", fail.Err)
				failures = append(failures, Failure{Path: fail.Path, Cause: fail.Err.Error()})
				return
			}
			records = append(records, record)
		}(path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		slog.Info("Ingestion abandoned", "dir", dir, "error", err)
		return nil, err
	}

	report := &IngestReport{
		TotalFiles:   len(files),
		SuccessCount: len(records),
		Failures:     failures,
	}
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Path < report.Failures[j].Path
	})

	if len(files) > 0 && len(records) == 0 {
		return report, ErrEmptyIngestion
	}

	if err := writeIndex(p.indexPath, records); err != nil {
		return report, err
	}

	slog.Info("Ingestion complete", "dir", dir,
		"succeeded", report.SuccessCount, "failed", len(report.Failures))
	return report, nil
}

// listPDFs enumerates all PDF files under dir in sorted order.
func listPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pdf directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pdf directory: %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), PDFExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// writeIndex persists the record set as a JSON array, sorted by path.
// Uses write-to-temp + rename so a crash never leaves a torn file.
func writeIndex(path string, records []domain.PaperRecord) error {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	if records == nil {
		records = []domain.PaperRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write index temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename index file: %w", err)
	}
	return nil
}
