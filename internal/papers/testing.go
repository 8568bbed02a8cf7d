package papers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/econsearch/papers-mcp/internal/domain"
)

// MockExtractor is an Extractor backed by canned responses, keyed by
// file base name. This is exported for use in integration tests.
type MockExtractor struct {
	mu sync.Mutex

	// Records maps base names to the record to return. Records are
	// returned with Path rewritten to the requested path.
	Records map[string]domain.PaperRecord

	// Failures maps base names to extraction errors.
	Failures map[string]error

	// Texts maps base names to full-text responses.
	Texts map[string]string

	calls []string
}

// NewMockExtractor creates an empty mock extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		Records:  make(map[string]domain.PaperRecord),
		Failures: make(map[string]error),
		Texts:    make(map[string]string),
	}
}

// Extract returns the canned record for the path's base name.
func (m *MockExtractor) Extract(ctx context.Context, path string) (domain.PaperRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaperRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)

	base := filepath.Base(path)
	if err, ok := m.Failures[base]; ok {
		return domain.PaperRecord{}, err
	}
	if rec, ok := m.Records[base]; ok {
		rec.Path = path
		return rec, nil
	}
	return domain.PaperRecord{
		Path:  path,
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
	}, nil
}

// FullText returns the canned text for the path's base name.
func (m *MockExtractor) FullText(ctx context.Context, path string, maxPages int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base := filepath.Base(path)
	if err, ok := m.Failures[base]; ok {
		return "", err
	}
	if text, ok := m.Texts[base]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no mock text configured for: %s", base)
}

// Calls returns the paths Extract was invoked with.
func (m *MockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
