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

// MetadataService fills blank poster, backdrop and overview fields from the
// best archive candidate. Non-blank fields are never overwritten.
type MetadataService struct {
	store    MetadataStore
	registry RegistryLookup
	selector CandidateSelector
	logger   *slog.Logger
}

// NewMetadataService wires a MetadataService.
func NewMetadataService(store MetadataStore, registry RegistryLookup, selector CandidateSelector, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		store:    store,
		registry: registry,
		selector: selector,
		logger:   logging.NewComponentLogger(logger, "metadata-backfill"),
	}
}

// fieldCounts tallies the fields one record gained.
type fieldCounts struct {
	poster, backdrop, overview int
}

// Run processes every record with a registry id and missing metadata. The
// error is non-nil only when the catalog cannot be read or ctx is cancelled.
func (s *MetadataService) Run(ctx context.Context, dryRun bool) (report MetadataReport, err error) {
	ctx, info, logger := startRun(ctx, s.logger, dryRun)
	report = MetadataReport{RunInfo: info, Outcomes: make(map[Outcome]int)}
	defer report.finish()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	movies, err := s.store.ListMissingMetadata(ctx)
	if err != nil {
		return report, fmt.Errorf("list catalog records: %w", err)
	}
	logger.Info("metadata backfill started", logging.Int("records", len(movies)))

	var runErr error
	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		var counts fieldCounts
		outcome := guardRecord(logger, movie, func() (Outcome, error) {
			return s.process(ctx, logger, movie, dryRun, &counts)
		})
		report.record(outcome)
		if outcome == OutcomeMatched {
			report.UpdatedPosterCount += counts.poster
			report.UpdatedBackdropCount += counts.backdrop
			report.UpdatedOverviewCount += counts.overview
		}
	}

	logger.Info("metadata backfill finished",
		logging.Int("requested", report.RequestedMovies),
		logging.Int("succeeded", report.SucceededMovies),
		logging.Int("failed", report.FailedMovies),
		logging.Int("ignored", report.IgnoredMovies),
		logging.Int("updated_posters", report.UpdatedPosterCount),
		logging.Int("updated_backdrops", report.UpdatedBackdropCount),
		logging.Int("updated_overviews", report.UpdatedOverviewCount),
	)
	return report, runErr
}

func (s *MetadataService) process(ctx context.Context, logger *slog.Logger, movie *catalog.Movie, dryRun bool, counts *fieldCounts) (Outcome, error) {
	var record *registry.Movie
	if found, ok := s.registry.Lookup(ctx, movie.RegistryID); ok {
		record = &found
	}
	hints := matching.BuildHints(record, localHints(movie))
	if !hints.Searchable() {
		return OutcomeNoRegistryData, nil
	}

	selection := s.selector.Select(ctx, hints)
	if !selection.Matched() {
		return outcomeFromSelection(selection), nil
	}
	if !selection.Candidate.HasMetadata() {
		return OutcomeResultLacksPoster, nil
	}

	updates := planMerge(movie, &selection)
	if updates.poster {
		counts.poster++
	}
	if updates.backdrop {
		counts.backdrop++
	}
	if updates.overview {
		counts.overview++
	}
	if updates.any() && !dryRun {
		merged := applyMerge(movie, &selection, updates)
		if err := s.store.Update(ctx, merged); err != nil {
			return OutcomeFailed, fmt.Errorf("persist metadata: %w", err)
		}
		*movie = *merged
	}
	logger.Debug("archive metadata matched",
		logging.Args(append(movieAttrs(movie),
			logging.Int("score", selection.Score),
			logging.String("strategy", selection.Strategy),
			logging.Bool("poster", updates.poster),
			logging.Bool("backdrop", updates.backdrop),
			logging.Bool("overview", updates.overview),
		)...)...)
	return OutcomeMatched, nil
}
