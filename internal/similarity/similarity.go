// Package similarity provides word-overlap similarity used to keep suggested
// feature names from duplicating ones a service already has.
package similarity

import "strings"

// ComputeContentSimilarity calculates Jaccard similarity between two strings.
// Tokenizes both strings and computes the Jaccard index (intersection/union).
func ComputeContentSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// IsDuplicate reports whether candidate is at least threshold-similar to any
// of existing.
func IsDuplicate(candidate string, existing []string, threshold float64) bool {
	for _, e := range existing {
		if ComputeContentSimilarity(candidate, e) >= threshold {
			return true
		}
	}
	return false
}

// FilterNovel returns the candidates that duplicate neither an existing name
// nor an earlier accepted candidate. Order is preserved.
func FilterNovel(candidates, existing []string, threshold float64) []string {
	seen := make([]string, len(existing), len(existing)+len(candidates))
	copy(seen, existing)

	novel := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(wordSet(c)) == 0 || IsDuplicate(c, seen, threshold) {
			continue
		}
		novel = append(novel, c)
		seen = append(seen, c)
	}
	return novel
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Tokenize(s) {
		set[strings.ToLower(w)] = true
	}
	return set
}
