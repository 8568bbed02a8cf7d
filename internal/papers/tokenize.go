package papers

import (
	"strings"
	"unicode"
)

// stopWords is the fixed stopword list shared by index-time and
// query-time tokenization. Changing it invalidates persisted statistics
// only in memory; the index file stores raw metadata, so a rebuild on
// the next load picks the change up automatically.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "an": {},
	"and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {},
	"before": {}, "below": {}, "between": {}, "but": {}, "by": {},
	"can": {}, "do": {}, "during": {}, "each": {}, "else": {}, "for": {},
	"from": {}, "had": {}, "has": {}, "have": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "no": {}, "not": {},
	"now": {}, "of": {}, "on": {}, "or": {}, "out": {}, "over": {},
	"same": {}, "so": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "then": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "to": {}, "too": {}, "under": {},
	"up": {}, "very": {}, "was": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "will": {}, "with": {},
}

// Tokenize lower-cases text, splits on non-alphanumeric boundaries, and
// drops stopwords and single-character fragments. The same function
// serves index construction and query parsing so that scores line up.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
