package similarity

import (
	"strings"
	"unicode"
)

// Tokenize splits a feature name into words. Letters, digits and
// underscores form words; everything else separates them.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
