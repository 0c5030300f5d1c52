package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"cinefill/internal/catalog"
	"cinefill/internal/logging"
)

// GenreService replaces catalog genre rows with the mapped registry genres.
type GenreService struct {
	store    GenreStore
	registry RegistryLookup
	mapper   GenreMapper
	logger   *slog.Logger
}

// NewGenreService wires a GenreService.
func NewGenreService(store GenreStore, registry RegistryLookup, mapper GenreMapper, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:    store,
		registry: registry,
		mapper:   mapper,
		logger:   logging.NewComponentLogger(logger, "genre-backfill"),
	}
}

// Run processes every record carrying a registry id. Replacing the full
// genre set per record keeps repeated runs self-correcting. The error is
// non-nil only when the catalog cannot be read or ctx is cancelled; the
// report then covers the records processed so far.
func (s *GenreService) Run(ctx context.Context, dryRun bool) (report GenreReport, err error) {
	ctx, info, logger := startRun(ctx, s.logger, dryRun)
	report = GenreReport{RunInfo: info}
	defer report.finish()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	initial, err := s.store.CountGenres(ctx)
	if err != nil {
		return report, fmt.Errorf("count genre rows: %w", err)
	}
	report.InitialGenreRows = initial
	report.FinalGenreRows = initial

	movies, err := s.store.ListWithRegistryID(ctx)
	if err != nil {
		return report, fmt.Errorf("list catalog records: %w", err)
	}
	logger.Info("genre backfill started", logging.Int("records", len(movies)), logging.Int("initial_genre_rows", initial))

	var runErr error
	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		var mapped int
		st := s.process(ctx, logger, movie, dryRun, &mapped)
		report.tally(st)
		if st == statusSucceeded {
			report.MappedGenreRows += mapped
		}
	}

	if !dryRun {
		final, err := s.store.CountGenres(context.WithoutCancel(ctx))
		if err != nil {
			return report, fmt.Errorf("count genre rows: %w", err)
		}
		report.FinalGenreRows = final
	}

	logger.Info("genre backfill finished",
		logging.Int("requested", report.RequestedMovies),
		logging.Int("succeeded", report.SucceededMovies),
		logging.Int("failed", report.FailedMovies),
		logging.Int("ignored", report.IgnoredMovies),
		logging.Int("mapped_genre_rows", report.MappedGenreRows),
		logging.Int("final_genre_rows", report.FinalGenreRows),
	)
	return report, runErr
}

func (s *GenreService) process(ctx context.Context, logger *slog.Logger, movie *catalog.Movie, dryRun bool, mapped *int) status {
	outcome := guardRecord(logger, movie, func() (Outcome, error) {
		if !movie.HasRegistryID() {
			return OutcomeNoRegistryData, nil
		}
		record, ok := s.registry.Lookup(ctx, movie.RegistryID)
		if !ok {
			logger.Debug("registry record unavailable", logging.Args(movieAttrs(movie)...)...)
			return OutcomeFailed, nil
		}
		genres := s.mapper.Map(record.Genres)
		if len(genres) == 0 {
			logger.Debug("no registry genres resolved",
				logging.Args(append(movieAttrs(movie), logging.Any("raw_genres", record.Genres))...)...)
			return OutcomeNoRegistryData, nil
		}
		if !dryRun {
			if err := s.store.ReplaceGenres(ctx, movie.ID, genres); err != nil {
				return OutcomeFailed, err
			}
		}
		*mapped = len(genres)
		return OutcomeMatched, nil
	})
	return outcome.status()
}
