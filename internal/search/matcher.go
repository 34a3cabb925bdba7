package search

import (
	"fmt"
	"strings"
)

// maxEditDistance is the fuzzy tolerance for near-miss queries.
const maxEditDistance = 2

// shortQueryLen marks raw queries too short for reliable fuzzy matching.
const shortQueryLen = 3

const partialMatchAdvisory = "partial match"

// fallbackVocabulary backs the closest-label fallback when nothing in the
// live corpus hits directly.
var fallbackVocabulary = []string{"t-shirt", "tshirt", "shirt", "longsleeve", "pants", "shorts"}

// CorpusEntry is one searchable catalog item: the product name plus its
// subcategory label, both of which queries are matched against.
type CorpusEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// MatchResult is the outcome of matching a query against a corpus. Advisory
// is empty for a clean match, "partial match" for very short queries, or a
// "showing results related to X" hint when the closest-label fallback fired.
type MatchResult struct {
	Results  []string `json:"results"`
	Advisory string   `json:"advisory,omitempty"`
}

// normalize folds a term for comparison: lowercase, spaces and hyphens
// removed, and a trailing plural "s" stripped.
func normalize(term string) string {
	folded := strings.ToLower(strings.TrimSpace(term))
	folded = strings.ReplaceAll(folded, " ", "")
	folded = strings.ReplaceAll(folded, "-", "")
	folded = strings.TrimSuffix(folded, "s")
	return folded
}

// entryMatches reports whether a normalized query hits an entry: substring of
// the concatenated name+category, or within edit distance of either field.
func entryMatches(query string, entry CorpusEntry) bool {
	name := normalize(entry.Name)
	category := normalize(entry.Category)
	if name == "" && category == "" {
		return false
	}
	if strings.Contains(name+category, query) {
		return true
	}
	if name != "" && levenshtein(query, name) <= maxEditDistance {
		return true
	}
	return category != "" && levenshtein(query, category) <= maxEditDistance
}

// closestLabel picks the vocabulary word with the minimum edit distance to
// the query. Ties go to the earlier word.
func closestLabel(query string) string {
	best := fallbackVocabulary[0]
	bestDistance := levenshtein(query, normalize(best))
	for _, word := range fallbackVocabulary[1:] {
		if d := levenshtein(query, normalize(word)); d < bestDistance {
			best, bestDistance = word, d
		}
	}
	return best
}

// Match is a pure function over the query and corpus. Direct matches keep
// corpus order and are deduplicated by normalized name; short raw queries
// carry a partial-match advisory. When nothing matches directly the corpus
// is refiltered by the closest vocabulary label, and any hits carry a
// related-results advisory naming that label.
func Match(rawQuery string, corpus []CorpusEntry) MatchResult {
	result := MatchResult{Results: []string{}}
	trimmed := strings.TrimSpace(rawQuery)
	query := normalize(trimmed)
	if query == "" {
		return result
	}

	seen := make(map[string]struct{})
	for _, entry := range corpus {
		if !entryMatches(query, entry) {
			continue
		}
		key := normalize(entry.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Results = append(result.Results, entry.Name)
	}
	if len(result.Results) > 0 {
		if len([]rune(trimmed)) <= shortQueryLen {
			result.Advisory = partialMatchAdvisory
		}
		return result
	}

	label := closestLabel(query)
	folded := normalize(label)
	for _, entry := range corpus {
		if !strings.Contains(normalize(entry.Name)+normalize(entry.Category), folded) {
			continue
		}
		key := normalize(entry.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Results = append(result.Results, entry.Name)
	}
	if len(result.Results) > 0 {
		result.Advisory = fmt.Sprintf("showing results related to %s", label)
	}
	return result
}
