package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// highlightReplacer removes the archive's search-hit placeholders.
var highlightReplacer = strings.NewReplacer("!HS", "", "!HE", "")

// SanitizeMarkup removes highlight placeholders and HTML-like tags from an
// archive field, decodes entities, and collapses whitespace.
func SanitizeMarkup(raw string) string {
	if IsBlank(raw) {
		return ""
	}
	cleaned := highlightReplacer.Replace(raw)
	if strings.ContainsAny(cleaned, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
		if err == nil {
			cleaned = doc.Text()
		} else {
			cleaned = markupPattern.ReplaceAllString(cleaned, "")
		}
	}
	return collapseSpaces(cleaned)
}

// FirstDelimited returns the first non-blank value of a delimiter-separated
// multi-value field, trimmed.
func FirstDelimited(raw, sep string) string {
	for _, part := range strings.Split(raw, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
