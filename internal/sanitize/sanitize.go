// Package sanitize cleans text produced by the idea generator before it
// reaches the domain model or the terminal. It strips control characters,
// markdown decoration, XML/HTML tags and list numbering while preserving the
// words themselves.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the maximum allowed length, in runes, for company,
// service and feature names.
const MaxNameLength = 80

// MaxDescriptionLength is the maximum allowed length, in runes, for service
// descriptions and image prompts.
const MaxDescriptionLength = 1000

// Pre-compiled regular expressions for performance.
var (
	// reXMLTag matches XML/HTML tags including those with attributes and self-closing tags.
	// It also matches XML processing instructions like <?xml ...?>.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	// reMarkdownHeading matches markdown headings at the start of a line (# , ## , etc.).
	reMarkdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s+`)

	// reTripleBacktick matches triple (or more) backtick sequences used in code fences.
	reTripleBacktick = regexp.MustCompile("```+")

	// reExcessiveNewlines matches 3 or more consecutive newlines.
	reExcessiveNewlines = regexp.MustCompile(`\n{3,}`)

	// reListMarker matches a leading bullet or ordinal: "- ", "* ", "1. ", "2) ".
	reListMarker = regexp.MustCompile(`^(?:[-*+•]\s+|\d{1,3}[.)]\s+)`)

	// reEmphasis matches markdown bold/italic/code markers.
	reEmphasis = regexp.MustCompile("\\*{1,3}|_{2,}|`+")

	// reWhitespace matches any run of whitespace.
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Name cleans a single-line name such as "1. **Smart Search**" into
// "Smart Search". Names are collapsed to one line, unquoted and truncated to
// MaxNameLength runes.
func Name(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = reMarkdownHeading.ReplaceAllString(s, "")
	s = reListMarker.ReplaceAllString(s, "")
	s = reEmphasis.ReplaceAllString(s, "")
	s = strings.Trim(s, " \"'“”‘’")
	s = strings.TrimRight(s, " .,;:")

	return truncate(s, MaxNameLength, "")
}

// Description cleans free text such as a service description or an image
// prompt. Line structure survives; markup does not.
//
// The sanitization pipeline runs in this order:
//  1. Strip null bytes and ASCII control characters (except \n, \t)
//  2. Strip XML/HTML tags
//  3. Remove markdown heading markers
//  4. Collapse triple backticks to single backtick
//  5. Collapse excessive newlines (3+ -> 2)
//  6. Trim leading/trailing whitespace
//  7. Truncate to MaxDescriptionLength
func Description(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reMarkdownHeading.ReplaceAllString(s, "")
	s = reTripleBacktick.ReplaceAllString(s, "`")
	s = reExcessiveNewlines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	return truncate(s, MaxDescriptionLength, "...")
}

// Names cleans every entry, dropping empties and case-insensitive repeats
// while keeping first-seen order.
func Names(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		n := Name(in)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// stripControlChars removes ASCII control characters (0x00-0x1F) from the string,
// except for newline (0x0A) and tab (0x09) which are preserved.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(s string, max int, suffix string) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + suffix
}
