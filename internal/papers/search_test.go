package papers

import (
	"reflect"
	"testing"

	"github.com/econsearch/papers-mcp/internal/domain"
)

// loadedStore builds a store over the given records.
func loadedStore(t *testing.T, records []domain.PaperRecord) *Store {
	t.Helper()
	store := NewStore(writeTestIndex(t, records), DefaultFieldWeights())
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestSearch_MatchingDocumentOnly(t *testing.T) {
	// D1 shares the query term; D2 does not and must be absent rather
	// than scored zero.
	store := loadedStore(t, testRecords())

	results := store.Search("inflation", 2)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Record.Path != "/papers/d1.pdf" {
		t.Errorf("top result = %s, want /papers/d1.pdf", results[0].Record.Path)
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %f, want > 0", results[0].Score)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	store := loadedStore(t, testRecords())
	if results := store.Search("", 5); len(results) != 0 {
		t.Errorf("empty query returned %d results, want 0", len(results))
	}
}

func TestSearch_StopwordOnlyQuery(t *testing.T) {
	store := loadedStore(t, testRecords())
	if results := store.Search("the and of", 5); len(results) != 0 {
		t.Errorf("stopword-only query returned %d results, want 0", len(results))
	}
}

func TestSearch_UnknownTermsQuery(t *testing.T) {
	store := loadedStore(t, testRecords())
	if results := store.Search("astrophysics quasars", 5); len(results) != 0 {
		t.Errorf("unknown-terms query returned %d results, want 0", len(results))
	}
}

func TestSearch_TopKClamp(t *testing.T) {
	records := []domain.PaperRecord{
		{Path: "/p/a.pdf", Title: "growth one"},
		{Path: "/p/b.pdf", Title: "growth two"},
		{Path: "/p/c.pdf", Title: "growth three"},
		{Path: "/p/d.pdf", Title: "growth four"},
		{Path: "/p/e.pdf", Title: "growth five"},
	}
	store := loadedStore(t, records)

	results := store.Search("growth", 1000)
	if len(results) > 5 {
		t.Errorf("got %d results, want <= 5", len(results))
	}

	results = store.Search("growth", 2)
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestSearch_Deterministic(t *testing.T) {
	store := loadedStore(t, testRecords())

	first := store.Search("inflation dynamics policy", 5)
	for i := 0; i < 10; i++ {
		again := store.Search("inflation dynamics policy", 5)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestSearch_TieBreakByPath(t *testing.T) {
	// Identical documents score identically; order must fall back to
	// ascending path.
	records := []domain.PaperRecord{
		{Path: "/p/zzz.pdf", Title: "identical trade tariffs"},
		{Path: "/p/aaa.pdf", Title: "identical trade tariffs"},
		{Path: "/p/mmm.pdf", Title: "identical trade tariffs"},
	}
	store := loadedStore(t, records)

	results := store.Search("tariffs", 3)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantOrder := []string{"/p/aaa.pdf", "/p/mmm.pdf", "/p/zzz.pdf"}
	for i, want := range wantOrder {
		if results[i].Record.Path != want {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Record.Path, want)
		}
	}
}

func TestSearch_TitleOutweighsAbstract(t *testing.T) {
	records := []domain.PaperRecord{
		{Path: "/p/title.pdf", Title: "inflation", Abstract: "unrelated filler text body"},
		{Path: "/p/abstract.pdf", Title: "unrelated filler text body", Abstract: "inflation"},
	}
	store := loadedStore(t, records)

	results := store.Search("inflation", 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Record.Path != "/p/title.pdf" {
		t.Errorf("top result = %s, want the title match first", results[0].Record.Path)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("title match score %f should exceed abstract match score %f",
			results[0].Score, results[1].Score)
	}
}

func TestSearch_ScoresDescending(t *testing.T) {
	records := []domain.PaperRecord{
		{Path: "/p/1.pdf", Title: "trade", Abstract: "trade trade trade"},
		{Path: "/p/2.pdf", Title: "trade policy other terms here", Abstract: "mostly unrelated content"},
		{Path: "/p/3.pdf", Title: "trade", Keywords: []string{"trade"}},
	}
	store := loadedStore(t, records)

	results := store.Search("trade", 3)
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order at %d: %f > %f",
				i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	store := NewStore("unused.json", DefaultFieldWeights())
	if results := store.Search("anything", 5); len(results) != 0 {
		t.Errorf("empty index returned %d results, want 0", len(results))
	}
}
