package matching

import (
	"strings"

	"cinefill/internal/archive"
	"cinefill/internal/config"
	"cinefill/internal/textutil"
)

// Weights holds the per-signal scores and the acceptance threshold.
type Weights struct {
	TitleExact    int
	TitleContains int
	Year          int
	Director      int
	MinScore      int
}

// DefaultWeights returns the stock scoring weights.
func DefaultWeights() Weights {
	return Weights{
		TitleExact:    70,
		TitleContains: 40,
		Year:          30,
		Director:      20,
		MinScore:      70,
	}
}

// WeightsFromConfig converts the [match] section into scoring weights.
func WeightsFromConfig(m config.Match) Weights {
	return Weights{
		TitleExact:    m.TitleExactScore,
		TitleContains: m.TitleContainsScore,
		Year:          m.YearScore,
		Director:      m.DirectorScore,
		MinScore:      m.MinScore,
	}
}

// Scorer computes match scores. It is a pure value and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// NewScorer returns a Scorer using w.
func NewScorer(w Weights) Scorer {
	return Scorer{weights: w}
}

// Weights returns the scorer's weights.
func (s Scorer) Weights() Weights {
	return s.weights
}

// ScoreTitle compares two titles after normalization: exact match, then
// containment in either direction, else zero. A blank side scores zero.
func (s Scorer) ScoreTitle(a, b string) int {
	switch titleRelation(a, b) {
	case titleExact:
		return s.weights.TitleExact
	case titleContains:
		return s.weights.TitleContains
	default:
		return 0
	}
}

// ScoreYear awards the year weight when both years are known and equal.
func (s Scorer) ScoreYear(a, b int) int {
	if a <= 0 || b <= 0 || a != b {
		return 0
	}
	return s.weights.Year
}

// ScoreDirectors awards the director weight when the normalized name sets
// intersect.
func (s Scorer) ScoreDirectors(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	names := normalizedNames(a)
	for _, name := range b {
		if _, ok := names[textutil.NormalizeText(name)]; ok {
			return s.weights.Director
		}
	}
	return 0
}

// Score sums the three signals for candidate against hints.
func (s Scorer) Score(hints Hints, candidate archive.Candidate) int {
	return s.ScoreTitle(hints.Title, candidate.Title) +
		s.ScoreYear(hints.Year, candidate.ProductionYear) +
		s.ScoreDirectors(hints.Directors, candidate.Directors)
}

// Accepts reports whether score clears the acceptance threshold.
func (s Scorer) Accepts(score int) bool {
	return score >= s.weights.MinScore
}

// TitleSimilar reports whether two titles match exactly or by containment.
func TitleSimilar(a, b string) bool {
	return titleRelation(a, b) != titleUnrelated
}

type relation int

const (
	titleUnrelated relation = iota
	titleContains
	titleExact
)

func titleRelation(a, b string) relation {
	left := textutil.NormalizeText(a)
	right := textutil.NormalizeText(b)
	if left == "" || right == "" {
		return titleUnrelated
	}
	if left == right {
		return titleExact
	}
	if strings.Contains(left, right) || strings.Contains(right, left) {
		return titleContains
	}
	return titleUnrelated
}

func normalizedNames(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if key := textutil.NormalizeText(name); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}
