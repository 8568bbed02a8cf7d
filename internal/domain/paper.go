package domain

// PaperRecord is the bibliographic metadata for one ingested PDF.
// It is the unit persisted in the JSON index file and the unit returned
// by search. Full document text is never stored here; it is read on
// demand via the extraction layer.
type PaperRecord struct {
	// Path is the canonical path of the source PDF and the primary key
	// within the index. Re-ingesting the same path replaces the record.
	Path string `json:"path"`

	// Title is the paper title, best-effort. May be empty.
	Title string `json:"title"`

	// Year is the publication year, or nil when not recoverable.
	Year *int `json:"year"`

	// Authors is the ordered author list. May be empty.
	Authors []string `json:"authors"`

	// Keywords is the ordered keyword list. May be empty.
	Keywords []string `json:"keywords"`

	// Abstract is the abstract text, best-effort. May be empty.
	Abstract string `json:"abstract"`
}

// Indexed field identifiers, used to attach per-field ranking weights.
const (
	PaperFieldTitle    = "title"
	PaperFieldKeywords = "keywords"
	PaperFieldAbstract = "abstract"
)
