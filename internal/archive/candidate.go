package archive

import (
	"encoding/json"
	"regexp"
	"strings"

	"cinefill/internal/textutil"
)

// Candidate is a single sanitized archive search hit.
type Candidate struct {
	Title          string   `json:"title"`
	EnglishTitle   string   `json:"englishTitle,omitempty"`
	ProductionYear int      `json:"productionYear,omitempty"`
	Directors      []string `json:"directors,omitempty"`
	PosterPath     string   `json:"posterPath,omitempty"`
	BackdropPath   string   `json:"backdropPath,omitempty"`
	Overview       string   `json:"overview,omitempty"`
}

// HasPoster reports whether the candidate carries a poster image.
func (c Candidate) HasPoster() bool {
	return !textutil.IsBlank(c.PosterPath)
}

// HasMetadata reports whether the candidate can fill any catalog field.
func (c Candidate) HasMetadata() bool {
	return c.HasPoster() || !textutil.IsBlank(c.BackdropPath) || !textutil.IsBlank(c.Overview)
}

// FirstDirector returns the first listed director or an empty string.
func (c Candidate) FirstDirector() string {
	if len(c.Directors) == 0 {
		return ""
	}
	return c.Directors[0]
}

var directorSplitPattern = regexp.MustCompile(`[,|/]`)

type searchResponse struct {
	TotalCount int `json:"TotalCount"`
	Data       []struct {
		CollName string         `json:"CollName"`
		Result   []searchResult `json:"Result"`
	} `json:"Data"`
}

type searchResult struct {
	Title     string `json:"title"`
	TitleEng  string `json:"titleEng"`
	ProdYear  string `json:"prodYear"`
	Director  string `json:"director"`
	Directors *struct {
		Director []struct {
			DirectorNm string `json:"directorNm"`
		} `json:"director"`
	} `json:"directors"`
	Posters string `json:"posters"`
	Stills  string `json:"stlls"`
	Plots   *struct {
		Plot []struct {
			PlotLang string `json:"plotLang"`
			PlotText string `json:"plotText"`
		} `json:"plot"`
	} `json:"plots"`
}

func (r searchResult) toCandidate() Candidate {
	candidate := Candidate{
		Title:          textutil.SanitizeMarkup(r.Title),
		EnglishTitle:   textutil.SanitizeMarkup(r.TitleEng),
		ProductionYear: textutil.LeadingYear(r.ProdYear),
		Directors:      r.directorNames(),
		PosterPath:     textutil.FirstDelimited(r.Posters, "|"),
		BackdropPath:   textutil.FirstDelimited(r.Stills, "|"),
	}
	if r.Plots != nil {
		for _, plot := range r.Plots.Plot {
			if text := textutil.SanitizeMarkup(plot.PlotText); text != "" {
				candidate.Overview = text
				break
			}
		}
	}
	return candidate
}

func (r searchResult) directorNames() []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		name := textutil.SanitizeMarkup(raw)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if r.Directors != nil {
		for _, d := range r.Directors.Director {
			add(d.DirectorNm)
		}
	}
	if len(names) == 0 {
		for _, part := range directorSplitPattern.Split(r.Director, -1) {
			add(part)
		}
	}
	return names
}

func decodeCandidates(body []byte) ([]Candidate, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	results := payload.Data[0].Result
	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		candidate := result.toCandidate()
		if candidate.Title == "" && candidate.EnglishTitle == "" {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func trimQuery(value string) string {
	return strings.TrimSpace(textutil.NormalizeQuery(value))
}
