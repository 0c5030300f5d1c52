package genre

import (
	"log/slog"
	"regexp"
	"strings"

	"cinefill/internal/logging"
)

// splitPattern separates compound registry genre strings.
var splitPattern = regexp.MustCompile(`[,/|·]`)

var parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

var sciFiSynonyms = map[string]struct{}{
	"sf":             {},
	"scifi":          {},
	"sciencefiction": {},
}

// aliases maps normalized tokens that are not taxonomy names onto the taxonomy.
var aliases = map[string]Genre{
	"멜로":        Romance,
	"멜로로맨스":     Romance,
	"로맨틱코미디":    Romance,
	"melodrama":   Romance,
	"서스펜스":      Thriller,
	"suspense":    Thriller,
	"공상과학":      SF,
	"다큐":        Documentary,
	"가족영화":      Family,
	"호러":        Horror,
	"공포호러":      Horror,
	"무협":        Action,
	"martialarts": Action,
	"역사":        History,
	"음악":        Music,
	"웨스턴":       Western,
	"서부극웨스턴":    Western,
}

// Mapper resolves raw genre tokens. The zero value is usable and discards logs.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper returns a Mapper that reports unresolved tokens at debug level.
func NewMapper(logger *slog.Logger) *Mapper {
	return &Mapper{logger: logging.NewComponentLogger(logger, "genre-mapper")}
}

// Map splits each raw value into atomic tokens and resolves them onto the
// taxonomy. The result preserves first-seen order without duplicates; an
// empty result means nothing resolved.
func (m *Mapper) Map(raw []string) []Genre {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Genre]struct{}, len(raw))
	var mapped []Genre
	for _, value := range raw {
		for _, token := range split(value) {
			g, ok := resolve(token)
			if !ok {
				m.log().Debug("unmapped registry genre token", logging.String("token", token))
				continue
			}
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			mapped = append(mapped, g)
		}
	}
	return mapped
}

// Map resolves raw genre tokens without logging.
func Map(raw []string) []Genre {
	var m Mapper
	return m.Map(raw)
}

func (m *Mapper) log() *slog.Logger {
	if m == nil || m.logger == nil {
		return logging.NewNop()
	}
	return m.logger
}

func split(raw string) []string {
	var tokens []string
	for _, part := range splitPattern.Split(raw, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

func resolve(token string) (Genre, bool) {
	stripped := strings.TrimSpace(parentheticalPattern.ReplaceAllString(token, ""))
	for _, candidate := range []string{token, stripped} {
		if candidate == "" {
			continue
		}
		if g, ok := Parse(candidate); ok {
			return g, true
		}
		key := normalize(candidate)
		if _, ok := sciFiSynonyms[key]; ok {
			return SF, true
		}
		if g, ok := aliases[key]; ok {
			return g, true
		}
	}
	return "", false
}

func normalize(value string) string {
	value = strings.Join(strings.Fields(value), "")
	value = strings.NewReplacer("(", "", ")", "", "-", "").Replace(value)
	return strings.ToLower(value)
}
