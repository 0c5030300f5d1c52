package registry

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"cinefill/internal/textutil"
)

// Movie is the registry's view of a single title.
type Movie struct {
	RegistryID     string   `json:"registryId"`
	Title          string   `json:"title"`
	EnglishTitle   string   `json:"englishTitle,omitempty"`
	OpenDate       string   `json:"openDate,omitempty"`
	ProductionYear int      `json:"productionYear,omitempty"`
	Runtime        int      `json:"runtime,omitempty"`
	Nation         string   `json:"nation,omitempty"`
	Directors      []string `json:"directors,omitempty"`
	Cast           []string `json:"cast,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	Genres         []string `json:"genres,omitempty"`
}

// FirstDirector returns the first listed director or an empty string.
func (m Movie) FirstDirector() string {
	if len(m.Directors) == 0 {
		return ""
	}
	return m.Directors[0]
}

// Year returns the production year, falling back to the year of the opening
// date. Zero means unknown.
func (m Movie) Year() int {
	if m.ProductionYear > 0 {
		return m.ProductionYear
	}
	return textutil.LeadingYear(m.OpenDate)
}

type lookupResponse struct {
	MovieInfoResult *struct {
		MovieInfo *movieInfo `json:"movieInfo"`
	} `json:"movieInfoResult"`
	FaultInfo *struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	} `json:"faultInfo"`
}

type movieInfo struct {
	MovieCd   string          `json:"movieCd"`
	MovieNm   string          `json:"movieNm"`
	MovieNmEn string          `json:"movieNmEn"`
	OpenDt    string          `json:"openDt"`
	PrdtYear  string          `json:"prdtYear"`
	ShowTm    string          `json:"showTm"`
	Directors json.RawMessage `json:"directors"`
	Actors    json.RawMessage `json:"actors"`
	Genres    json.RawMessage `json:"genres"`
	Nations   json.RawMessage `json:"nations"`
	Audits    json.RawMessage `json:"audits"`
}

type namedEntry struct {
	PeopleNm     string `json:"peopleNm"`
	GenreNm      string `json:"genreNm"`
	NationNm     string `json:"nationNm"`
	WatchGradeNm string `json:"watchGradeNm"`
}

func (info movieInfo) toMovie(fallbackID string) Movie {
	movie := Movie{
		RegistryID:     textutil.FirstNonBlank(info.MovieCd, fallbackID),
		Title:          strings.TrimSpace(info.MovieNm),
		EnglishTitle:   strings.TrimSpace(info.MovieNmEn),
		OpenDate:       strings.TrimSpace(info.OpenDt),
		ProductionYear: parseInteger(info.PrdtYear),
		Runtime:        parseInteger(info.ShowTm),
	}
	movie.Directors = entryValues(info.Directors, "director", func(e namedEntry) string { return e.PeopleNm })
	movie.Cast = entryValues(info.Actors, "actor", func(e namedEntry) string { return e.PeopleNm })
	movie.Genres = entryValues(info.Genres, "genre", func(e namedEntry) string { return e.GenreNm })
	movie.Nation = strings.Join(entryValues(info.Nations, "nation", func(e namedEntry) string { return e.NationNm }), ", ")
	if grades := entryValues(info.Audits, "audit", func(e namedEntry) string { return e.WatchGradeNm }); len(grades) > 0 {
		movie.Rating = grades[0]
	}
	return movie
}

// entryValues decodes a registry list that is either a bare array or an
// object wrapping the array under wrapperKey, and returns the non-blank
// values picked from each entry.
func entryValues(raw json.RawMessage, wrapperKey string, pick func(namedEntry) string) []string {
	entries := decodeEntries(raw, wrapperKey)
	if len(entries) == 0 {
		return nil
	}
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		if value := strings.TrimSpace(pick(entry)); value != "" {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func decodeEntries(raw json.RawMessage, wrapperKey string) []namedEntry {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var entries []namedEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil
		}
		return entries
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil
		}
		inner, ok := wrapper[wrapperKey]
		if !ok {
			return nil
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '{' {
			var single namedEntry
			if err := json.Unmarshal(inner, &single); err != nil {
				return nil
			}
			return []namedEntry{single}
		}
		var entries []namedEntry
		if err := json.Unmarshal(inner, &entries); err != nil {
			return nil
		}
		return entries
	}
	return nil
}

// parseInteger keeps only the digits of raw. Values without digits yield 0.
func parseInteger(raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}
