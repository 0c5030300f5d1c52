package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cinefill/internal/catalog"
	"cinefill/internal/genre"
	"cinefill/internal/logging"
	"cinefill/internal/matching"
	"cinefill/internal/registry"
	"cinefill/internal/textutil"
)

// RegistryLookup fetches registry records by id.
type RegistryLookup interface {
	Lookup(ctx context.Context, registryID string) (registry.Movie, bool)
}

// CandidateSelector resolves the best archive candidate for hints.
type CandidateSelector interface {
	Select(ctx context.Context, hints matching.Hints) matching.Selection
}

// GenreMapper resolves raw genre labels onto the taxonomy.
type GenreMapper interface {
	Map(raw []string) []genre.Genre
}

// GenreStore is the catalog surface used by GenreService.
type GenreStore interface {
	ListWithRegistryID(ctx context.Context) ([]*catalog.Movie, error)
	CountGenres(ctx context.Context) (int, error)
	ReplaceGenres(ctx context.Context, movieID int64, genres []genre.Genre) error
}

// MetadataStore is the catalog surface used by MetadataService.
type MetadataStore interface {
	ListMissingMetadata(ctx context.Context) ([]*catalog.Movie, error)
	Update(ctx context.Context, movie *catalog.Movie) error
}

// PosterStore is the catalog surface used by PosterAuditService.
type PosterStore interface {
	ListWithRegistryID(ctx context.Context) ([]*catalog.Movie, error)
	Update(ctx context.Context, movie *catalog.Movie) error
}

// startRun tags ctx with a run id (reusing one already present) and returns
// the run header plus a logger carrying the run id.
func startRun(ctx context.Context, logger *slog.Logger, dryRun bool) (context.Context, RunInfo, *slog.Logger) {
	runID, ok := logging.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}
	info := RunInfo{RunID: runID, DryRun: dryRun, StartedAt: time.Now().UTC()}
	return ctx, info, logging.WithContext(ctx, logger).With(logging.Bool("dry_run", dryRun))
}

func (r *RunInfo) finish() {
	r.Duration = time.Since(r.StartedAt)
}

func movieAttrs(movie *catalog.Movie) []logging.Attr {
	return []logging.Attr{
		logging.Int64(logging.FieldMovieID, movie.ID),
		logging.String(logging.FieldRegistryID, movie.RegistryID),
	}
}

// guardRecord runs fn for one record, converting errors and panics into
// OutcomeFailed with a warning that names the record.
func guardRecord(logger *slog.Logger, movie *catalog.Movie, fn func() (Outcome, error)) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			attrs := append(movieAttrs(movie), logging.String("panic", fmt.Sprint(r)))
			logging.WarnWithContext(logger, "record processing panicked", "record_panic", attrs...)
			outcome = OutcomeFailed
		}
	}()
	outcome, err := fn()
	if err != nil {
		attrs := append(movieAttrs(movie), logging.Error(err))
		logging.WarnWithContext(logger, "record processing failed", "record_failed", attrs...)
		return OutcomeFailed
	}
	return outcome
}

func localHints(movie *catalog.Movie) matching.Local {
	return matching.Local{
		Title:        movie.Title,
		EnglishTitle: movie.EnglishTitle,
		ReleaseDate:  movie.ReleaseDate,
	}
}

// fieldUpdates records which blank fields a candidate can fill.
type fieldUpdates struct {
	poster   bool
	backdrop bool
	overview bool
}

func (u fieldUpdates) any() bool {
	return u.poster || u.backdrop || u.overview
}

func planMerge(movie *catalog.Movie, selection *matching.Selection) fieldUpdates {
	c := selection.Candidate
	return fieldUpdates{
		poster:   textutil.IsBlank(movie.PosterPath) && !textutil.IsBlank(c.PosterPath),
		backdrop: textutil.IsBlank(movie.BackdropPath) && !textutil.IsBlank(c.BackdropPath),
		overview: textutil.IsBlank(movie.Overview) && !textutil.IsBlank(c.Overview),
	}
}

// applyMerge copies the planned fields onto a copy of movie. The original is
// left untouched so dry runs and failed writes never leak values.
func applyMerge(movie *catalog.Movie, selection *matching.Selection, updates fieldUpdates) *catalog.Movie {
	merged := *movie
	c := selection.Candidate
	if updates.poster {
		merged.PosterPath = textutil.FirstNonBlank(c.PosterPath)
	}
	if updates.backdrop {
		merged.BackdropPath = textutil.FirstNonBlank(c.BackdropPath)
	}
	if updates.overview {
		merged.Overview = textutil.FirstNonBlank(c.Overview)
	}
	if updates.any() {
		merged.Matched = true
	}
	return &merged
}
