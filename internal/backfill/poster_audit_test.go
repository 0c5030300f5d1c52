package backfill_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cinefill/internal/archive"
	"cinefill/internal/backfill"
	"cinefill/internal/catalog"
	"cinefill/internal/registry"
	"cinefill/internal/testsupport"
)

var ignorePosterRunInfo = cmpopts.IgnoreFields(backfill.PosterAuditReport{}, "RunInfo")

type posterFixture struct {
	store    *catalog.Store
	registry *fakeRegistry
	searcher *titleSearcher
	ids      map[string]int64
}

func seedPosterCatalog(t *testing.T) posterFixture {
	t.Helper()
	store := openStore(t)
	ids := make(map[string]int64)
	add := func(key string, movie catalog.Movie) {
		ids[key] = testsupport.InsertMovie(t, store, movie).ID
	}
	add("has-poster", catalog.Movie{RegistryID: "10", Title: "Oldboy", PosterPath: "oldboy.jpg"})
	add("matched", catalog.Movie{RegistryID: "20", Title: "local title", ReleaseDate: testsupport.Date(2006, time.July, 27)})
	add("no-result", catalog.Movie{RegistryID: "30", Title: "Nowhere"})
	add("lacks-poster", catalog.Movie{RegistryID: "40", Title: "Bare"})
	add("below", catalog.Movie{RegistryID: "50", Title: "Far off"})
	add("untitled", catalog.Movie{RegistryID: "60", Title: "placeholder"})
	add("panics", catalog.Movie{RegistryID: "70", Title: "Boom"})
	testsupport.InsertMovie(t, store, catalog.Movie{Title: "Unregistered"})

	untitled := testsupport.MustGet(t, store, ids["untitled"])
	untitled.Title = " "
	if err := store.Update(context.Background(), untitled); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reg := &fakeRegistry{
		panicOn: "70",
		records: map[string]registry.Movie{
			"20": {RegistryID: "20", Title: "괴물", ProductionYear: 2006, Directors: []string{"봉준호"}},
			"30": {RegistryID: "30", Title: "Nowhere"},
			"40": {RegistryID: "40", Title: "Bare"},
			"50": {RegistryID: "50", Title: "Far off"},
		},
	}
	searcher := &titleSearcher{byTitle: map[string][]archive.Candidate{
		"괴물": {{
			Title:          "괴물",
			ProductionYear: 2006,
			Directors:      []string{"봉준호"},
			PosterPath:     "host.jpg",
			BackdropPath:   "host-still.jpg",
			Overview:       "한강",
		}},
		"Bare":    {{Title: "Bare", Overview: "text only"}},
		"Far off": {{Title: "Something else entirely", PosterPath: "x.jpg"}},
	}}
	return posterFixture{store: store, registry: reg, searcher: searcher, ids: ids}
}

func TestPosterAuditRun(t *testing.T) {
	fx := seedPosterCatalog(t)
	service := backfill.NewPosterAuditService(fx.store, fx.registry, newSelector(fx.searcher), nil)

	report, err := service.Run(context.Background(), false, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := backfill.PosterAuditReport{
		TotalMovies:               7,
		TargetMissingPosterMovies: 6,
		AlreadyHasPoster:          1,
		NoRegistryPosterSource:    6,
		RegistryUnavailable:       1,
		NoSearchTitle:             1,
		ArchiveNoResult:           1,
		ArchiveResultLacksPoster:  1,
		MatchScoreBelowThreshold:  1,
		MatchedUpdated:            1,
		Failed:                    1,
	}
	if diff := cmp.Diff(want, report, ignorePosterRunInfo); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
	if report.Details != nil {
		t.Fatalf("expected no details, got %v", report.Details)
	}

	matched := testsupport.MustGet(t, fx.store, fx.ids["matched"])
	if matched.PosterPath != "host.jpg" || matched.BackdropPath != "host-still.jpg" || matched.Overview != "한강" {
		t.Fatalf("expected poster, backdrop and overview filled: %+v", matched)
	}
	if !matched.Matched {
		t.Fatal("expected matched flag")
	}
	if matched.Title != "local title" {
		t.Fatalf("title must not change: %q", matched.Title)
	}
	kept := testsupport.MustGet(t, fx.store, fx.ids["has-poster"])
	if kept.PosterPath != "oldboy.jpg" || kept.Matched {
		t.Fatalf("record with poster modified: %+v", kept)
	}
}

func TestPosterAuditDetails(t *testing.T) {
	fx := seedPosterCatalog(t)
	service := backfill.NewPosterAuditService(fx.store, fx.registry, newSelector(fx.searcher), nil)

	report, err := service.Run(context.Background(), true, true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got := make(map[string]backfill.Outcome, len(report.Details))
	for _, detail := range report.Details {
		got[detail.RegistryID] = detail.Outcome
	}
	want := map[string]backfill.Outcome{
		"10": backfill.OutcomeAlreadyHasPoster,
		"20": backfill.OutcomeMatched,
		"30": backfill.OutcomeNoArchiveResult,
		"40": backfill.OutcomeResultLacksPoster,
		"50": backfill.OutcomeBelowThreshold,
		"60": backfill.OutcomeNoRegistryData,
		"70": backfill.OutcomeFailed,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected detail outcomes (-want +got):\n%s", diff)
	}
	for _, detail := range report.Details {
		if detail.RegistryID == "20" && detail.Score != 120 {
			t.Fatalf("expected score 120 for matched record, got %d", detail.Score)
		}
	}
}

func TestPosterAuditDryRunLeavesCatalogUntouched(t *testing.T) {
	dryFx := seedPosterCatalog(t)
	dry, err := backfill.NewPosterAuditService(dryFx.store, dryFx.registry, newSelector(dryFx.searcher), nil).
		Run(context.Background(), true, false)
	if err != nil {
		t.Fatalf("dry Run failed: %v", err)
	}
	realFx := seedPosterCatalog(t)
	real, err := backfill.NewPosterAuditService(realFx.store, realFx.registry, newSelector(realFx.searcher), nil).
		Run(context.Background(), false, false)
	if err != nil {
		t.Fatalf("real Run failed: %v", err)
	}
	if diff := cmp.Diff(real, dry, ignorePosterRunInfo); diff != "" {
		t.Fatalf("dry run diverged (-real +dry):\n%s", diff)
	}

	untouched := testsupport.MustGet(t, dryFx.store, dryFx.ids["matched"])
	if untouched.PosterPath != "" || untouched.BackdropPath != "" || untouched.Overview != "" || untouched.Matched {
		t.Fatalf("dry run persisted changes: %+v", untouched)
	}
}

func TestPosterAuditCancelledContext(t *testing.T) {
	fx := seedPosterCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := backfill.NewPosterAuditService(fx.store, fx.registry, newSelector(fx.searcher), nil).Run(ctx, false, false)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if report.TotalMovies != 0 {
		t.Fatalf("expected no records processed, got %d", report.TotalMovies)
	}
	if report.RunID == "" {
		t.Fatal("expected run id on report")
	}
}
