package matching

import (
	"cinefill/internal/archive"
	"cinefill/internal/textutil"
)

// Strategy builds one archive query from hints. Build returns false when the
// strategy does not apply, in which case no search is issued.
type Strategy struct {
	Name  string
	Build func(Hints) (archive.Query, bool)
}

// DefaultStrategies returns the search cascade in evaluation order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "title-year-director", Build: func(h Hints) (archive.Query, bool) {
			return archive.Query{Title: h.Title, Year: h.Year, Director: h.Director()}, !textutil.IsBlank(h.Title)
		}},
		{Name: "title-year", Build: func(h Hints) (archive.Query, bool) {
			return archive.Query{Title: h.Title, Year: h.Year}, !textutil.IsBlank(h.Title) && h.Year > 0
		}},
		{Name: "title-director", Build: func(h Hints) (archive.Query, bool) {
			return archive.Query{Title: h.Title, Director: h.Director()}, !textutil.IsBlank(h.Title) && !textutil.IsBlank(h.Director())
		}},
		{Name: "title", Build: func(h Hints) (archive.Query, bool) {
			return archive.Query{Title: h.Title}, !textutil.IsBlank(h.Title)
		}},
		{Name: "english-title", Build: func(h Hints) (archive.Query, bool) {
			if textutil.IsBlank(h.EnglishTitle) {
				return archive.Query{}, false
			}
			distinct := textutil.NormalizeText(h.EnglishTitle) != textutil.NormalizeText(h.Title)
			return archive.Query{Title: h.EnglishTitle}, distinct
		}},
		{Name: "simplified-title-year-director", Build: func(h Hints) (archive.Query, bool) {
			simplified, ok := simplifiedTitle(h)
			return archive.Query{Title: simplified, Year: h.Year, Director: h.Director()}, ok
		}},
		{Name: "simplified-title", Build: func(h Hints) (archive.Query, bool) {
			simplified, ok := simplifiedTitle(h)
			return archive.Query{Title: simplified}, ok
		}},
	}
}

func simplifiedTitle(h Hints) (string, bool) {
	simplified := textutil.SimplifyTitle(h.Title)
	if simplified == "" || simplified == textutil.NormalizeQuery(h.Title) {
		return "", false
	}
	return simplified, true
}
