package papers

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/econsearch/papers-mcp/internal/domain"
)

// FieldWeights controls how much each metadata field contributes to a
// document's term frequencies. All weights must be positive.
type FieldWeights struct {
	Title    float64
	Keywords float64
	Abstract float64
}

// DefaultFieldWeights favors title matches over keywords over abstract.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{Title: 3.0, Keywords: 2.0, Abstract: 1.0}
}

// snapshot is an immutable view of the loaded index plus derived
// ranking statistics. It is built fully before being published, so
// readers never observe partial state.
type snapshot struct {
	records map[string]domain.PaperRecord
	paths   []string // sorted; fixes iteration and tie-break order

	docFreq   map[string]int
	totalDocs int

	// vectors maps path -> term -> TF-IDF weight; norms holds the
	// corresponding vector norms for cosine scoring.
	vectors map[string]map[string]float64
	norms   map[string]float64
}

// Store holds the in-memory paper index. Loads rebuild statistics in an
// isolated snapshot and publish it with a single pointer swap; a failed
// load leaves the previous snapshot in place.
type Store struct {
	indexPath string
	weights   FieldWeights

	mu   sync.RWMutex
	snap *snapshot
}

// NewStore creates a store bound to the given index file. The store
// starts empty; call Load to populate it.
func NewStore(indexPath string, weights FieldWeights) *Store {
	return &Store{
		indexPath: indexPath,
		weights:   weights,
		snap:      buildSnapshot(nil, weights),
	}
}

// IndexPath returns the path of the persisted index file.
func (s *Store) IndexPath() string {
	return s.indexPath
}

// Load reads the index file and atomically replaces the current
// snapshot. A missing or malformed file yields an IndexLoadError and
// keeps the previous snapshot queryable. A well-formed file with zero
// entries is a valid empty index, not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		return &IndexLoadError{Path: s.indexPath, Err: err}
	}

	var records []domain.PaperRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return &IndexLoadError{Path: s.indexPath, Err: fmt.Errorf("malformed index: %w", err)}
	}

	snap := buildSnapshot(records, s.weights)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// TotalDocuments returns the number of documents in the current snapshot.
func (s *Store) TotalDocuments() int {
	return s.snapshot().totalDocs
}

// Record returns the record for a path and whether it is indexed.
func (s *Store) Record(path string) (domain.PaperRecord, bool) {
	snap := s.snapshot()
	rec, ok := snap.records[path]
	return rec, ok
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// buildSnapshot computes vocabulary, document frequencies, and
// per-document TF-IDF vectors for the given records. Duplicate paths
// keep the last record seen.
func buildSnapshot(records []domain.PaperRecord, weights FieldWeights) *snapshot {
	byPath := make(map[string]domain.PaperRecord, len(records))
	for _, rec := range records {
		if rec.Path == "" {
			continue
		}
		byPath[rec.Path] = rec
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	// Weighted term frequencies per document, then document frequencies
	// over the whole set.
	termFreqs := make(map[string]map[string]float64, len(paths))
	docFreq := make(map[string]int)
	for _, path := range paths {
		tf := weightedTermFrequencies(byPath[path], weights)
		termFreqs[path] = tf
		for term := range tf {
			docFreq[term]++
		}
	}

	totalDocs := len(paths)
	vectors := make(map[string]map[string]float64, totalDocs)
	norms := make(map[string]float64, totalDocs)
	for _, path := range paths {
		vec := make(map[string]float64, len(termFreqs[path]))
		var sumSquares float64
		for term, tf := range termFreqs[path] {
			w := tf * smoothedIDF(totalDocs, docFreq[term])
			vec[term] = w
			sumSquares += w * w
		}
		vectors[path] = vec
		norms[path] = math.Sqrt(sumSquares)
	}

	return &snapshot{
		records:   byPath,
		paths:     paths,
		docFreq:   docFreq,
		totalDocs: totalDocs,
		vectors:   vectors,
		norms:     norms,
	}
}

// weightedTermFrequencies combines the indexed fields of a record into
// a single term frequency map, scaling each field by its weight.
func weightedTermFrequencies(rec domain.PaperRecord, weights FieldWeights) map[string]float64 {
	tf := make(map[string]float64)
	addTokens := func(text string, weight float64) {
		for _, term := range Tokenize(text) {
			tf[term] += weight
		}
	}
	addTokens(rec.Title, weights.Title)
	for _, kw := range rec.Keywords {
		addTokens(kw, weights.Keywords)
	}
	addTokens(rec.Abstract, weights.Abstract)
	return tf
}

// smoothedIDF computes log((1+N)/(1+df)) + 1. It is strictly positive
// and defined for df=0.
func smoothedIDF(totalDocs, docFreq int) float64 {
	return math.Log(float64(1+totalDocs)/float64(1+docFreq)) + 1.0
}
