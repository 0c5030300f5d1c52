package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"cinefill/internal/archive"
	"cinefill/internal/config"
	"cinefill/internal/logging"
	"cinefill/internal/textutil"
)

// Searcher is the archive search operation used by the selector.
type Searcher interface {
	Search(ctx context.Context, q archive.Query) []archive.Candidate
}

// Outcome classifies a selection.
type Outcome string

const (
	// OutcomeMatched means a candidate cleared the threshold (or was accepted
	// by relaxed matching).
	OutcomeMatched Outcome = "matched"
	// OutcomeNoArchiveResult means every applicable strategy returned nothing.
	OutcomeNoArchiveResult Outcome = "no_archive_result"
	// OutcomeBelowThreshold means the best pooled candidate scored too low.
	OutcomeBelowThreshold Outcome = "below_threshold"
)

// Selection is the result of a cascade. Candidate is nil unless Outcome is
// OutcomeMatched; Score holds the best pooled score either way.
type Selection struct {
	Candidate *archive.Candidate
	Score     int
	PoolSize  int
	Strategy  string
	Relaxed   bool
	Outcome   Outcome
}

// Matched reports whether a candidate was selected.
func (s Selection) Matched() bool {
	return s.Outcome == OutcomeMatched && s.Candidate != nil
}

// Selector runs the archive search cascade and picks the best candidate.
type Selector struct {
	searcher             Searcher
	scorer               Scorer
	strategies           []Strategy
	listCount            int
	preferPosterOnTie    bool
	relaxedMinScore      int
	relaxedYearTolerance int
	logger               *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the selector logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrategies replaces the default search cascade.
func WithStrategies(strategies ...Strategy) Option {
	return func(s *Selector) {
		s.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithListCount caps the results requested per query.
func WithListCount(count int) Option {
	return func(s *Selector) {
		if count > 0 {
			s.listCount = count
		}
	}
}

// WithPosterTieBreak controls whether a tied candidate with a poster replaces
// a tied best candidate without one.
func WithPosterTieBreak(enabled bool) Option {
	return func(s *Selector) {
		s.preferPosterOnTie = enabled
	}
}

// WithRelaxedMatch accepts a below-threshold best candidate scoring at least
// minScore when it has a poster, a similar title and a year within
// tolerance. A minScore of zero disables relaxed matching.
func WithRelaxedMatch(minScore, yearTolerance int) Option {
	return func(s *Selector) {
		s.relaxedMinScore = minScore
		s.relaxedYearTolerance = max(yearTolerance, 0)
	}
}

// OptionsFromConfig maps configuration onto selector options.
func OptionsFromConfig(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithListCount(cfg.Archive.ListCount),
		WithPosterTieBreak(cfg.Match.PreferPosterOnTie),
		WithRelaxedMatch(cfg.Match.RelaxedMinScore, cfg.Match.RelaxedYearTolerance),
	}
}

// NewSelector builds a Selector over searcher.
func NewSelector(searcher Searcher, scorer Scorer, opts ...Option) *Selector {
	s := &Selector{
		searcher:          searcher,
		scorer:            scorer,
		strategies:        DefaultStrategies(),
		listCount:         10,
		preferPosterOnTie: true,
		logger:            logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "selector")
	return s
}

// Select runs the cascade for hints. It never fails; missing upstream data
// yields OutcomeNoArchiveResult.
func (s *Selector) Select(ctx context.Context, hints Hints) Selection {
	pool, strategy := s.gather(ctx, hints)
	if len(pool) == 0 {
		return Selection{Outcome: OutcomeNoArchiveResult}
	}

	bestIndex, bestScore := s.best(hints, pool)
	selection := Selection{
		Score:    bestScore,
		PoolSize: len(pool),
		Strategy: strategy,
		Outcome:  OutcomeBelowThreshold,
	}
	best := pool[bestIndex]
	logger := logging.WithContext(ctx, s.logger)
	switch {
	case s.scorer.Accepts(bestScore):
		selection.Outcome = OutcomeMatched
	case s.relaxedAccepts(hints, best, bestScore):
		selection.Outcome = OutcomeMatched
		selection.Relaxed = true
		logger.Info("relaxed archive match accepted",
			logging.String("title", hints.Title),
			logging.Int("score", bestScore),
			logging.Int("min_score", s.scorer.Weights().MinScore),
		)
	default:
		logger.Debug("archive match below threshold",
			logging.String("title", hints.Title),
			logging.Int("best_score", bestScore),
			logging.Int("pool_size", len(pool)),
		)
		return selection
	}
	selection.Candidate = &best
	return selection
}

func (s *Selector) gather(ctx context.Context, hints Hints) ([]archive.Candidate, string) {
	issued := make(map[string]struct{}, len(s.strategies))
	for _, strategy := range s.strategies {
		if ctx.Err() != nil {
			return nil, ""
		}
		query, ok := strategy.Build(hints)
		if !ok {
			continue
		}
		query.ListCount = s.listCount
		key := queryKey(query)
		if _, dup := issued[key]; dup {
			continue
		}
		issued[key] = struct{}{}

		pool := dedupe(s.searcher.Search(ctx, query))
		if len(pool) > 0 {
			return pool, strategy.Name
		}
	}
	return nil, ""
}

func (s *Selector) best(hints Hints, pool []archive.Candidate) (int, int) {
	bestIndex, bestScore := 0, s.scorer.Score(hints, pool[0])
	for i := 1; i < len(pool); i++ {
		score := s.scorer.Score(hints, pool[i])
		if score > bestScore {
			bestIndex, bestScore = i, score
			continue
		}
		if s.preferPosterOnTie && score == bestScore && pool[i].HasPoster() && !pool[bestIndex].HasPoster() {
			bestIndex = i
		}
	}
	return bestIndex, bestScore
}

func (s *Selector) relaxedAccepts(hints Hints, candidate archive.Candidate, score int) bool {
	if s.relaxedMinScore <= 0 || score < s.relaxedMinScore {
		return false
	}
	if !candidate.HasPoster() || !TitleSimilar(hints.Title, candidate.Title) {
		return false
	}
	if hints.Year <= 0 || candidate.ProductionYear <= 0 {
		return false
	}
	diff := hints.Year - candidate.ProductionYear
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.relaxedYearTolerance
}

func dedupe(candidates []archive.Candidate) []archive.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	pool := make([]archive.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := dedupeKey(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, candidate)
	}
	return pool
}

func dedupeKey(c archive.Candidate) string {
	return textutil.NormalizeText(c.Title) + "|" + strconv.Itoa(c.ProductionYear) + "|" + textutil.NormalizeText(c.FirstDirector())
}

func queryKey(q archive.Query) string {
	return fmt.Sprintf("%s|%d|%s", textutil.NormalizeQuery(q.Title), q.Year, textutil.NormalizeQuery(q.Director))
}
