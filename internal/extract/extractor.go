// Package extract reads bibliographic metadata and plain text out of PDF
// files. It uses ledongthuc/pdf (pure Go, no CGO) for parsing and fills
// in missing metadata with heuristics over the first pages of text.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/econsearch/papers-mcp/internal/domain"
)

const (
	// MaxPreviewPages bounds how many leading pages feed the metadata heuristics.
	MaxPreviewPages = 4

	// MaxPreviewChars bounds the preview text length.
	MaxPreviewChars = 5000

	// MaxTitleChars bounds a title guessed from the first text line.
	MaxTitleChars = 300

	// MaxAbstractChars bounds the extracted abstract.
	MaxAbstractChars = 1500
)

var (
	yearPattern     = regexp.MustCompile(`(19|20)\d{2}`)
	partSplitter    = regexp.MustCompile(`[;,/]`)
	keywordsPattern = regexp.MustCompile(`(?i)keywords?\s*[:\-]\s*(.+)`)
	abstractPattern = regexp.MustCompile(`(?is)abstract[:\s]*(.+?)(?:\n\s*\n|keywords?:|\z)`)
)

// Extractor parses PDF files into PaperRecords and full text.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the PDF at path into a PaperRecord. Fields that cannot
// be determined are left at their zero values; only a file that cannot
// be opened or yields no readable pages at all is an error.
func (e *Extractor) Extract(ctx context.Context, path string) (domain.PaperRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaperRecord{}, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return domain.PaperRecord{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	preview, err := readText(ctx, r, MaxPreviewPages, MaxPreviewChars)
	if err != nil {
		return domain.PaperRecord{}, err
	}

	info := r.Trailer().Key("Info")

	record := domain.PaperRecord{
		Path:     path,
		Title:    guessTitle(infoString(info, "Title"), preview, path),
		Year:     parseYear(infoString(info, "CreationDate"), infoString(info, "ModDate")),
		Authors:  guessAuthors(infoString(info, "Author"), preview),
		Keywords: guessKeywords(infoString(info, "Keywords"), infoString(info, "Subject"), preview),
		Abstract: guessAbstract(preview),
	}
	return record, nil
}

// FullText extracts the document's plain text. maxPages limits how many
// pages are read; zero means all pages.
func (e *Extractor) FullText(ctx context.Context, path string, maxPages int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readText(ctx, r, maxPages, 0)
}

// readText collects plain text from up to maxPages pages (0 = all),
// truncated to maxChars (0 = unlimited). Pages that fail to extract are
// skipped rather than failing the document.
func readText(ctx context.Context, r *pdf.Reader, maxPages, maxChars int) (string, error) {
	numPages := r.NumPage()
	if maxPages > 0 && numPages > maxPages {
		numPages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
		if maxChars > 0 && sb.Len() >= maxChars {
			break
		}
	}

	out := strings.TrimSpace(sb.String())
	if maxChars > 0 && len(out) > maxChars {
		out = out[:maxChars]
	}
	return out, nil
}

// infoString reads a string entry from the PDF Info dictionary.
func infoString(info pdf.Value, key string) string {
	if info.Kind() != pdf.Dict {
		return ""
	}
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.RawString())
}

// cleanParts splits raw metadata strings on common separators and drops
// empty or "none" entries.
func cleanParts(parts ...string) []string {
	var cleaned []string
	for _, item := range parts {
		if item == "" {
			continue
		}
		for _, chunk := range partSplitter.Split(item, -1) {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" || strings.EqualFold(chunk, "none") {
				continue
			}
			cleaned = append(cleaned, chunk)
		}
	}
	return cleaned
}

// parseYear finds the first plausible four-digit year in the candidates.
func parseYear(candidates ...string) *int {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		match := yearPattern.FindString(raw)
		if match == "" {
			continue
		}
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		return &year
	}
	return nil
}

// guessTitle prefers the Info dictionary title, then the first non-empty
// preview line, then the file stem.
func guessTitle(metaTitle, preview, path string) string {
	if metaTitle != "" {
		return metaTitle
	}
	for _, line := range strings.Split(preview, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > MaxTitleChars {
			line = line[:MaxTitleChars]
		}
		return line
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// guessAuthors prefers the Info dictionary author field. Failing that,
// the second preview line is used if it looks like a short list of
// comma-separated names.
func guessAuthors(metaAuthor, preview string) []string {
	if fromMeta := cleanParts(metaAuthor); len(fromMeta) > 0 {
		return fromMeta
	}
	var lines []string
	for _, line := range strings.Split(preview, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 1 {
		possible := cleanParts(lines[1])
		if len(possible) >= 1 && len(possible) <= 6 {
			return possible
		}
	}
	return nil
}

// guessKeywords prefers the Info dictionary Keywords/Subject fields,
// then a "Keywords:" line in the preview text.
func guessKeywords(metaKeywords, metaSubject, preview string) []string {
	if fromMeta := cleanParts(metaKeywords, metaSubject); len(fromMeta) > 0 {
		return fromMeta
	}
	if m := keywordsPattern.FindStringSubmatch(preview); m != nil {
		return cleanParts(m[1])
	}
	return nil
}

// guessAbstract extracts the abstract section from the preview, falling
// back to the leading preview text.
func guessAbstract(preview string) string {
	if strings.Contains(strings.ToLower(preview), "abstract") {
		if m := abstractPattern.FindStringSubmatch(preview); m != nil {
			abstract := strings.TrimSpace(m[1])
			if len(abstract) > MaxAbstractChars {
				abstract = abstract[:MaxAbstractChars]
			}
			if abstract != "" {
				return abstract
			}
		}
	}
	if len(preview) > MaxAbstractChars {
		return preview[:MaxAbstractChars]
	}
	return preview
}
