package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinefill/internal/backfill"
	"cinefill/internal/catalog"
	"cinefill/internal/config"
	"cinefill/internal/fileutil"
	"cinefill/internal/genre"
	"cinefill/internal/notifications"
)

const reportDir = "build/reports"

type backfillFlags struct {
	dryRun     bool
	jsonOutput bool
	reportPath string
}

// register adds the shared flags. A bare --report-path writes to
// build/reports/<name>.json.
func (f *backfillFlags) register(cmd *cobra.Command, name string) {
	defaultPath := reportDir + "/" + name + ".json"
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Compute the report without writing to the catalog")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&f.reportPath, "report-path", "", "Write a JSON copy of the report (--report-path=FILE, bare flag uses "+defaultPath+")")
	cmd.Flags().Lookup("report-path").NoOptDefVal = defaultPath
}

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill missing catalog data from the registry and the archive",
	}

	backfillCmd.AddCommand(newBackfillGenresCommand(ctx))
	backfillCmd.AddCommand(newBackfillMetadataCommand(ctx))
	backfillCmd.AddCommand(newBackfillPostersCommand(ctx))

	return backfillCmd
}

func newBackfillGenresCommand(ctx *commandContext) *cobra.Command {
	var flags backfillFlags
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "Rebuild genre associations from registry genre names",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.newEngine()
			if err != nil {
				return err
			}
			return ctx.exclusive(cmd, func(runCtx context.Context) error {
				return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
					service := backfill.NewGenreService(store, eng.registry, genre.NewMapper(eng.logger), eng.logger)
					report, err := service.Run(runCtx, flags.dryRun)
					eng.notify(runCtx, genreSummary(report), err)
					if err != nil {
						return err
					}
					return emitReport(cmd, flags, report, func() string { return renderGenreReport(report) })
				})
			})
		},
	}
	flags.register(cmd, "genre-backfill")
	return cmd
}

func newBackfillMetadataCommand(ctx *commandContext) *cobra.Command {
	var flags backfillFlags
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Fill blank posters, backdrops and overviews from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.newEngine()
			if err != nil {
				return err
			}
			return ctx.exclusive(cmd, func(runCtx context.Context) error {
				return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
					service := backfill.NewMetadataService(store, eng.registry, eng.selector, eng.logger)
					report, err := service.Run(runCtx, flags.dryRun)
					eng.notify(runCtx, metadataSummary(report), err)
					if err != nil {
						return err
					}
					return emitReport(cmd, flags, report, func() string { return renderMetadataReport(report) })
				})
			})
		},
	}
	flags.register(cmd, "metadata-backfill")
	return cmd
}

func newBackfillPostersCommand(ctx *commandContext) *cobra.Command {
	var flags backfillFlags
	var details bool
	cmd := &cobra.Command{
		Use:   "posters",
		Short: "Audit records without a poster and fill them from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.newEngine()
			if err != nil {
				return err
			}
			return ctx.exclusive(cmd, func(runCtx context.Context) error {
				return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
					service := backfill.NewPosterAuditService(store, eng.registry, eng.selector, eng.logger)
					report, err := service.Run(runCtx, flags.dryRun, details)
					eng.notify(runCtx, posterSummary(report), err)
					if err != nil {
						return err
					}
					return emitReport(cmd, flags, report, func() string { return renderPosterAuditReport(report) })
				})
			})
		},
	}
	flags.register(cmd, "poster-audit")
	cmd.Flags().BoolVar(&details, "details", false, "Include one entry per audited record")
	return cmd
}

// emitReport writes the optional report file and then prints the report.
func emitReport(cmd *cobra.Command, flags backfillFlags, report any, render func() string) error {
	if path := strings.TrimSpace(flags.reportPath); path != "" {
		written, err := writeReportFile(path, report)
		if err != nil {
			return err
		}
		if !flags.jsonOutput {
			defer fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", written)
		}
	}
	if flags.jsonOutput {
		return writeJSON(cmd, report)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render())
	return nil
}

func writeReportFile(path string, report any) (string, error) {
	target, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return target, nil
}

func genreSummary(report backfill.GenreReport) notifications.Summary {
	return notifications.Summary{
		Kind:      "genres",
		RunID:     report.RunID,
		DryRun:    report.DryRun,
		Requested: report.RequestedMovies,
		Succeeded: report.SucceededMovies,
		Failed:    report.FailedMovies,
		Ignored:   report.IgnoredMovies,
		Duration:  report.Duration,
	}
}

func metadataSummary(report backfill.MetadataReport) notifications.Summary {
	return notifications.Summary{
		Kind:      "metadata",
		RunID:     report.RunID,
		DryRun:    report.DryRun,
		Requested: report.RequestedMovies,
		Succeeded: report.SucceededMovies,
		Failed:    report.FailedMovies,
		Ignored:   report.IgnoredMovies,
		Duration:  report.Duration,
	}
}

func posterSummary(report backfill.PosterAuditReport) notifications.Summary {
	return notifications.Summary{
		Kind:      "posters",
		RunID:     report.RunID,
		DryRun:    report.DryRun,
		Requested: report.TotalMovies,
		Succeeded: report.MatchedUpdated,
		Failed:    report.Failed,
		Ignored:   report.TotalMovies - report.MatchedUpdated - report.Failed,
		Duration:  report.Duration,
	}
}
