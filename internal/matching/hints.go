package matching

import (
	"strings"
	"time"

	"cinefill/internal/registry"
	"cinefill/internal/textutil"
)

// Hints carries the search terms for one catalog record.
type Hints struct {
	Title        string
	EnglishTitle string
	Year         int
	Directors    []string
}

// Local is the subset of a catalog record used as a fallback for hints.
type Local struct {
	Title        string
	EnglishTitle string
	ReleaseDate  *time.Time
}

// BuildHints derives hints from the registry record when present, falling
// back to local values field by field. The year prefers the registry
// production year, then the registry open date, then the local release date.
func BuildHints(record *registry.Movie, local Local) Hints {
	hints := Hints{
		Title:        strings.TrimSpace(local.Title),
		EnglishTitle: strings.TrimSpace(local.EnglishTitle),
	}
	if local.ReleaseDate != nil && !local.ReleaseDate.IsZero() {
		hints.Year = local.ReleaseDate.Year()
	}
	if record == nil {
		return hints
	}
	hints.Title = textutil.FirstNonBlank(record.Title, hints.Title)
	hints.EnglishTitle = textutil.FirstNonBlank(record.EnglishTitle, hints.EnglishTitle)
	if year := record.Year(); year > 0 {
		hints.Year = year
	}
	if director := strings.TrimSpace(record.FirstDirector()); director != "" {
		hints.Directors = []string{director}
	}
	return hints
}

// Director returns the first director hint or an empty string.
func (h Hints) Director() string {
	if len(h.Directors) == 0 {
		return ""
	}
	return h.Directors[0]
}

// Searchable reports whether any title is available to search with.
func (h Hints) Searchable() bool {
	return !textutil.IsBlank(h.Title) || !textutil.IsBlank(h.EnglishTitle)
}
