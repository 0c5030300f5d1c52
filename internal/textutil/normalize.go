package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// markupPattern matches the archive highlight placeholders and HTML-like tags.
	markupPattern = regexp.MustCompile(`!HS|!HE|<[^>]+>`)
	// bracketPattern matches parenthetical and square-bracketed notes.
	bracketPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	// separatorPattern matches title separators that carry no meaning in queries.
	separatorPattern = regexp.MustCompile(`[:\-–_]`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// NormalizeText folds a title or person name into a comparison key: markup and
// bracketed notes are dropped, punctuation and whitespace removed, and the
// remainder lowercased.
func NormalizeText(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	folded := norm.NFKC.String(value)
	folded = markupPattern.ReplaceAllString(folded, " ")
	folded = bracketPattern.ReplaceAllString(folded, " ")

	var builder strings.Builder
	builder.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// NormalizeQuery strips markup and bracketed notes from a search term and
// collapses whitespace. Punctuation is preserved.
func NormalizeQuery(value string) string {
	if value == "" {
		return ""
	}
	cleaned := markupPattern.ReplaceAllString(value, " ")
	cleaned = bracketPattern.ReplaceAllString(cleaned, " ")
	return collapseSpaces(cleaned)
}

// SimplifyTitle removes bracketed notes and separator punctuation so a
// subtitle-heavy title can be retried as a looser query.
func SimplifyTitle(title string) string {
	if IsBlank(title) {
		return ""
	}
	cleaned := norm.NFKC.String(title)
	cleaned = bracketPattern.ReplaceAllString(cleaned, " ")
	cleaned = separatorPattern.ReplaceAllString(cleaned, " ")
	return collapseSpaces(cleaned)
}

// IsBlank reports whether value is empty after trimming whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// FirstNonBlank returns the first non-blank value, trimmed.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// LeadingYear extracts the first four digits of a date-like string such as
// "20021219" or "2002-12-19". Returns 0 when fewer than four digits exist.
func LeadingYear(raw string) int {
	year, digits := 0, 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		year = year*10 + int(r-'0')
		digits++
		if digits == 4 {
			return year
		}
	}
	return 0
}

func collapseSpaces(value string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(value, " "))
}
