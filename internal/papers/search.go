package papers

import (
	"math"
	"sort"

	"github.com/econsearch/papers-mcp/internal/domain"
)

// SearchResult pairs a ranked record with its cosine similarity score.
type SearchResult struct {
	Record domain.PaperRecord
	Score  float64
}

// Search ranks indexed documents against a free-text query and returns
// at most topK results in descending score order. Documents with no
// term overlap are absent rather than scored zero. Ties are broken by
// ascending path, so results are deterministic for a given snapshot.
// An empty or all-stopword query yields no results. topK values larger
// than the corpus are clamped; values below 1 mean "no limit".
func (s *Store) Search(query string, topK int) []SearchResult {
	snap := s.snapshot()

	terms := Tokenize(query)
	if len(terms) == 0 || snap.totalDocs == 0 {
		return nil
	}

	// Query vector: TF over query terms times smoothed IDF. Terms
	// outside the vocabulary keep their IDF weight; they contribute to
	// the query norm but match no document.
	queryTF := make(map[string]float64, len(terms))
	for _, term := range terms {
		queryTF[term]++
	}
	queryVec := make(map[string]float64, len(queryTF))
	var querySquares float64
	for term, tf := range queryTF {
		w := tf * smoothedIDF(snap.totalDocs, snap.docFreq[term])
		queryVec[term] = w
		querySquares += w * w
	}
	queryNorm := math.Sqrt(querySquares)
	if queryNorm == 0 {
		return nil
	}

	// Iterating in snapshot path order plus a stable sort gives the
	// ascending-path tie-break for equal scores.
	results := make([]SearchResult, 0, len(snap.paths))
	for _, path := range snap.paths {
		docVec := snap.vectors[path]
		docNorm := snap.norms[path]
		if docNorm == 0 {
			continue
		}
		var dot float64
		for term, qw := range queryVec {
			if dw, ok := docVec[term]; ok {
				dot += qw * dw
			}
		}
		if dot == 0 {
			continue
		}
		results = append(results, SearchResult{
			Record: snap.records[path],
			Score:  dot / (queryNorm * docNorm),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
