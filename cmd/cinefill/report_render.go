package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cinefill/internal/backfill"
)

func runHeader(info backfill.RunInfo) []metric {
	return []metric{
		{"Run", info.RunID},
		{"Dry run", yesNo(info.DryRun)},
		{"Duration", info.Duration.Round(time.Millisecond).String()},
	}
}

func count(value int) string {
	return strconv.Itoa(value)
}

func renderGenreReport(report backfill.GenreReport) string {
	metrics := append(runHeader(report.RunInfo),
		metric{"Requested", count(report.RequestedMovies)},
		metric{"Succeeded", count(report.SucceededMovies)},
		metric{"Failed", count(report.FailedMovies)},
		metric{"Ignored", count(report.IgnoredMovies)},
		metric{"Mapped genre rows", count(report.MappedGenreRows)},
		metric{"Genre rows before", count(report.InitialGenreRows)},
		metric{"Genre rows after", count(report.FinalGenreRows)},
	)
	return renderMetrics("Genre backfill", metrics)
}

func renderMetadataReport(report backfill.MetadataReport) string {
	metrics := append(runHeader(report.RunInfo),
		metric{"Requested", count(report.RequestedMovies)},
		metric{"Succeeded", count(report.SucceededMovies)},
		metric{"Failed", count(report.FailedMovies)},
		metric{"Ignored", count(report.IgnoredMovies)},
		metric{"Posters filled", count(report.UpdatedPosterCount)},
		metric{"Backdrops filled", count(report.UpdatedBackdropCount)},
		metric{"Overviews filled", count(report.UpdatedOverviewCount)},
	)
	for _, outcome := range backfill.Outcomes() {
		if n := report.Outcomes[outcome]; n > 0 {
			metrics = append(metrics, metric{"Outcome " + string(outcome), count(n)})
		}
	}
	return renderMetrics("Metadata backfill", metrics)
}

func renderPosterAuditReport(report backfill.PosterAuditReport) string {
	metrics := append(runHeader(report.RunInfo),
		metric{"Total records", count(report.TotalMovies)},
		metric{"Missing poster", count(report.TargetMissingPosterMovies)},
		metric{"Already has poster", count(report.AlreadyHasPoster)},
		metric{"No registry poster source", count(report.NoRegistryPosterSource)},
		metric{"Registry unavailable", count(report.RegistryUnavailable)},
		metric{"No search title", count(report.NoSearchTitle)},
		metric{"Archive no result", count(report.ArchiveNoResult)},
		metric{"Archive result lacks poster", count(report.ArchiveResultLacksPoster)},
		metric{"Below threshold", count(report.MatchScoreBelowThreshold)},
		metric{"Matched and updated", count(report.MatchedUpdated)},
		metric{"Failed", count(report.Failed)},
	)
	var b strings.Builder
	b.WriteString(renderMetrics("Poster audit", metrics))
	if len(report.Details) == 0 {
		return b.String()
	}

	rows := make([][]string, 0, len(report.Details))
	for _, detail := range report.Details {
		score := ""
		if detail.Score > 0 {
			score = count(detail.Score)
			if detail.Relaxed {
				score += " (relaxed)"
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", detail.MovieID),
			detail.RegistryID,
			detail.Title,
			string(detail.Outcome),
			score,
		})
	}
	b.WriteString("\n")
	b.WriteString(renderTable("Details",
		[]string{"ID", "Registry ID", "Title", "Outcome", "Score"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return b.String()
}
