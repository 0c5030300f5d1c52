package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"cinefill/internal/catalog"
	"cinefill/internal/logging"
	"cinefill/internal/matching"
	"cinefill/internal/registry"
)

// PosterAuditService audits records without a poster and fills the poster
// (plus blank backdrop and overview) from the archive.
type PosterAuditService struct {
	store    PosterStore
	registry RegistryLookup
	selector CandidateSelector
	logger   *slog.Logger
}

// NewPosterAuditService wires a PosterAuditService.
func NewPosterAuditService(store PosterStore, registry RegistryLookup, selector CandidateSelector, logger *slog.Logger) *PosterAuditService {
	return &PosterAuditService{
		store:    store,
		registry: registry,
		selector: selector,
		logger:   logging.NewComponentLogger(logger, "poster-audit"),
	}
}

type auditResult struct {
	outcome             Outcome
	score               int
	relaxed             bool
	registryUnavailable bool
}

// Run audits every record with a registry id. includeDetails adds one
// PosterAuditDetail per record to the report. The error is non-nil only when
// the catalog cannot be read or ctx is cancelled.
func (s *PosterAuditService) Run(ctx context.Context, dryRun, includeDetails bool) (report PosterAuditReport, err error) {
	ctx, info, logger := startRun(ctx, s.logger, dryRun)
	report = PosterAuditReport{RunInfo: info}
	if includeDetails {
		report.Details = []PosterAuditDetail{}
	}
	defer report.finish()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	movies, err := s.store.ListWithRegistryID(ctx)
	if err != nil {
		return report, fmt.Errorf("list catalog records: %w", err)
	}
	logger.Info("poster audit started", logging.Int("records", len(movies)))

	var runErr error
	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		var result auditResult
		result.outcome = guardRecord(logger, movie, func() (Outcome, error) {
			return s.process(ctx, movie, dryRun, &result)
		})
		report.record(result.outcome)
		if result.registryUnavailable {
			report.RegistryUnavailable++
		}
		if includeDetails {
			report.Details = append(report.Details, PosterAuditDetail{
				MovieID:    movie.ID,
				RegistryID: movie.RegistryID,
				Title:      movie.Title,
				Outcome:    result.outcome,
				Score:      result.score,
				Relaxed:    result.relaxed,
			})
		}
	}

	logger.Info("poster audit finished",
		logging.Int("total", report.TotalMovies),
		logging.Int("missing_poster", report.TargetMissingPosterMovies),
		logging.Int("already_has_poster", report.AlreadyHasPoster),
		logging.Int("registry_unavailable", report.RegistryUnavailable),
		logging.Int("archive_no_result", report.ArchiveNoResult),
		logging.Int("archive_result_lacks_poster", report.ArchiveResultLacksPoster),
		logging.Int("below_threshold", report.MatchScoreBelowThreshold),
		logging.Int("matched_updated", report.MatchedUpdated),
		logging.Int("failed", report.Failed),
	)
	return report, runErr
}

func (s *PosterAuditService) process(ctx context.Context, movie *catalog.Movie, dryRun bool, result *auditResult) (Outcome, error) {
	if !movie.MissingPoster() {
		return OutcomeAlreadyHasPoster, nil
	}

	var record *registry.Movie
	if found, ok := s.registry.Lookup(ctx, movie.RegistryID); ok {
		record = &found
	} else {
		result.registryUnavailable = true
	}
	hints := matching.BuildHints(record, localHints(movie))
	if !hints.Searchable() {
		return OutcomeNoRegistryData, nil
	}

	selection := s.selector.Select(ctx, hints)
	result.score = selection.Score
	result.relaxed = selection.Relaxed
	if !selection.Matched() {
		return outcomeFromSelection(selection), nil
	}
	if !selection.Candidate.HasPoster() {
		return OutcomeResultLacksPoster, nil
	}

	if !dryRun {
		merged := applyMerge(movie, &selection, planMerge(movie, &selection))
		if err := s.store.Update(ctx, merged); err != nil {
			return OutcomeFailed, fmt.Errorf("persist poster: %w", err)
		}
		*movie = *merged
	}
	return OutcomeMatched, nil
}
