package backfill

import (
	"time"
)

// RunInfo identifies one run.
type RunInfo struct {
	RunID     string        `json:"runId"`
	DryRun    bool          `json:"dryRun"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"durationNanos"`
}

// GenreReport summarizes a genre backfill run.
type GenreReport struct {
	RunInfo
	RequestedMovies  int `json:"requestedMovies"`
	SucceededMovies  int `json:"succeededMovies"`
	FailedMovies     int `json:"failedMovies"`
	IgnoredMovies    int `json:"ignoredMovies"`
	MappedGenreRows  int `json:"mappedGenreRows"`
	InitialGenreRows int `json:"initialGenreRows"`
	FinalGenreRows   int `json:"finalGenreRows"`
}

func (r *GenreReport) tally(s status) {
	r.RequestedMovies++
	switch s {
	case statusSucceeded:
		r.SucceededMovies++
	case statusFailed:
		r.FailedMovies++
	case statusIgnored:
		r.IgnoredMovies++
	}
}

// MetadataReport summarizes a metadata backfill run.
type MetadataReport struct {
	RunInfo
	RequestedMovies      int             `json:"requestedMovies"`
	SucceededMovies      int             `json:"succeededMovies"`
	FailedMovies         int             `json:"failedMovies"`
	IgnoredMovies        int             `json:"ignoredMovies"`
	UpdatedPosterCount   int             `json:"updatedPosterCount"`
	UpdatedBackdropCount int             `json:"updatedBackdropCount"`
	UpdatedOverviewCount int             `json:"updatedOverviewCount"`
	Outcomes             map[Outcome]int `json:"outcomes"`
}

func (r *MetadataReport) record(outcome Outcome) {
	r.RequestedMovies++
	switch outcome.status() {
	case statusSucceeded:
		r.SucceededMovies++
	case statusFailed:
		r.FailedMovies++
	case statusIgnored:
		r.IgnoredMovies++
	}
	if r.Outcomes == nil {
		r.Outcomes = make(map[Outcome]int)
	}
	r.Outcomes[outcome]++
}

// PosterAuditDetail describes the outcome of one audited record.
type PosterAuditDetail struct {
	MovieID    int64   `json:"movieId"`
	RegistryID string  `json:"registryId"`
	Title      string  `json:"title"`
	Outcome    Outcome `json:"outcome"`
	Score      int     `json:"score,omitempty"`
	Relaxed    bool    `json:"relaxed,omitempty"`
}

// PosterAuditReport summarizes a poster audit run.
type PosterAuditReport struct {
	RunInfo
	TotalMovies               int                 `json:"totalMovies"`
	TargetMissingPosterMovies int                 `json:"targetMissingPosterMovies"`
	AlreadyHasPoster          int                 `json:"alreadyHasPoster"`
	NoRegistryPosterSource    int                 `json:"noRegistryPosterSource"`
	RegistryUnavailable       int                 `json:"registryUnavailable"`
	NoSearchTitle             int                 `json:"noSearchTitle"`
	ArchiveNoResult           int                 `json:"archiveNoResult"`
	ArchiveResultLacksPoster  int                 `json:"archiveResultLacksPoster"`
	MatchScoreBelowThreshold  int                 `json:"matchScoreBelowThreshold"`
	MatchedUpdated            int                 `json:"matchedUpdated"`
	Failed                    int                 `json:"failed"`
	Details                   []PosterAuditDetail `json:"details,omitempty"`
}

func (r *PosterAuditReport) record(outcome Outcome) {
	r.TotalMovies++
	switch outcome {
	case OutcomeAlreadyHasPoster:
		r.AlreadyHasPoster++
		return
	case OutcomeNoRegistryData:
		r.NoSearchTitle++
	case OutcomeNoArchiveResult:
		r.ArchiveNoResult++
	case OutcomeResultLacksPoster:
		r.ArchiveResultLacksPoster++
	case OutcomeBelowThreshold:
		r.MatchScoreBelowThreshold++
	case OutcomeMatched:
		r.MatchedUpdated++
	case OutcomeFailed:
		r.Failed++
	default:
		panic("backfill: unknown outcome " + string(outcome))
	}
	r.TargetMissingPosterMovies++
	r.NoRegistryPosterSource++
}
