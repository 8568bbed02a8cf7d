// Package papers implements the paper ingestion pipeline, the TF-IDF
// ranking index, and the MCP tools exposing them.
package papers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/econsearch/papers-mcp/internal/config"
	"github.com/econsearch/papers-mcp/internal/domain"
)

// Service coordinates ingestion, the index store, ranking, and lazy
// full-text reads.
type Service struct {
	settings  *config.PapersSettings
	extractor Extractor
	pipeline  *Pipeline
	store     *Store
}

// NewService creates a paper search service from settings and an
// extraction capability.
func NewService(settings *config.PapersSettings, extractor Extractor) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	weights := FieldWeights{
		Title:    settings.TitleWeight,
		Keywords: settings.KeywordsWeight,
		Abstract: settings.AbstractWeight,
	}

	return &Service{
		settings:  settings,
		extractor: extractor,
		pipeline:  NewPipeline(extractor, settings.IndexPath),
		store:     NewStore(settings.IndexPath, weights),
	}, nil
}

// Initialize loads the persisted index. A missing index file is logged
// and the service starts with an empty index; only a malformed file is
// worth surfacing to the operator, and even then the service stays up.
func (s *Service) Initialize() {
	if err := s.store.Load(); err != nil {
		slog.Warn("Starting with empty index", "path", s.store.IndexPath(), "error", err)
		return
	}
	slog.Info("Index loaded", "path", s.store.IndexPath(), "documents", s.store.TotalDocuments())
}

// Ingest runs the pipeline over dir and reloads the store from the
// freshly written index. workers <= 0 selects the configured default.
func (s *Service) Ingest(ctx context.Context, dir string, workers int) (*IngestReport, error) {
	if dir == "" {
		dir = s.settings.PDFDir
	}
	if dir == "" {
		return nil, fmt.Errorf("no pdf directory configured or provided")
	}
	if workers <= 0 {
		workers = s.settings.Workers
	}

	report, err := s.pipeline.Run(ctx, dir, workers)
	if err != nil {
		return report, err
	}

	if err := s.store.Load(); err != nil {
		return report, err
	}
	return report, nil
}

// Search ranks indexed papers against the query, returning at most topK
// results. An empty query yields no results.
func (s *Service) Search(query string, topK int) []SearchResult {
	if topK <= 0 {
		topK = s.settings.DefaultTopK
	}
	return s.store.Search(query, topK)
}

// Reload re-reads the index file and returns the new document count.
// On failure the previously loaded index remains queryable.
func (s *Service) Reload() (int, error) {
	if err := s.store.Load(); err != nil {
		return s.store.TotalDocuments(), err
	}
	return s.store.TotalDocuments(), nil
}

// Settings returns the service configuration.
func (s *Service) Settings() *config.PapersSettings {
	return s.settings
}

// TotalDocuments returns the number of indexed papers.
func (s *Service) TotalDocuments() int {
	return s.store.TotalDocuments()
}

// Record returns the indexed record for a path.
func (s *Service) Record(path string) (domain.PaperRecord, bool) {
	return s.store.Record(path)
}

// Body fetches the full text of an indexed paper on demand. maxPages
// limits the read (0 = all pages). Failures never touch the store.
func (s *Service) Body(ctx context.Context, path string, maxPages int) (string, error) {
	if _, ok := s.store.Record(path); !ok {
		return "", &BodyUnavailableError{Path: path, Err: fmt.Errorf("not in index")}
	}
	text, err := s.extractor.FullText(ctx, path, maxPages)
	if err != nil {
		return "", &BodyUnavailableError{Path: path, Err: err}
	}
	return text, nil
}
