package backfill_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cinefill/internal/archive"
	"cinefill/internal/backfill"
	"cinefill/internal/catalog"
	"cinefill/internal/matching"
	"cinefill/internal/registry"
	"cinefill/internal/testsupport"
)

var ignoreMetadataRunInfo = cmpopts.IgnoreFields(backfill.MetadataReport{}, "RunInfo")

func TestMetadataServiceEndToEnd(t *testing.T) {
	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("movieCd") != "20020234" {
			_, _ = w.Write([]byte(`{"movieInfoResult":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"movieInfoResult":{"movieInfo":{"movieCd":"20020234","movieNm":"Two Towers : Part 2","prdtYear":"2002","directors":[{"peopleNm":"P.J."}]}}}`))
	}))
	t.Cleanup(registryServer.Close)
	archiveServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Data":[{"Result":[{"title":"!HSTwo Towers : Part 2!HE","prodYear":"2002","directors":{"director":[{"directorNm":"P.J."}]},"posters":"https://example/poster.jpg|https://example/alt.jpg"}]}]}`))
	}))
	t.Cleanup(archiveServer.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithRegistryURL(registryServer.URL),
		testsupport.WithArchiveURL(archiveServer.URL),
	)
	store := testsupport.MustOpenStore(t, cfg)
	movie := testsupport.InsertMovie(t, store, catalog.Movie{
		RegistryID:  "20020234",
		Title:       "Two Towers : Part 2",
		ReleaseDate: testsupport.Date(2002, time.December, 19),
	})

	registryClient, err := registry.New(cfg.Registry.APIKey, cfg.Registry.BaseURL)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	archiveClient, err := archive.New(cfg.Archive.APIKey, cfg.Archive.BaseURL)
	if err != nil {
		t.Fatalf("archive.New: %v", err)
	}
	scorer := matching.NewScorer(matching.WeightsFromConfig(cfg.Match))
	selector := matching.NewSelector(archiveClient, scorer, matching.OptionsFromConfig(cfg)...)

	hints := matching.BuildHints(&registry.Movie{Title: "Two Towers : Part 2", ProductionYear: 2002, Directors: []string{"P.J."}}, matching.Local{})
	if selection := selector.Select(context.Background(), hints); selection.Score != 120 {
		t.Fatalf("expected combined score 120, got %d", selection.Score)
	}

	service := backfill.NewMetadataService(store, registryClient, selector, nil)
	report, err := service.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.UpdatedPosterCount != 1 || report.SucceededMovies != 1 || report.RequestedMovies != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Outcomes[backfill.OutcomeMatched] != 1 {
		t.Fatalf("expected matched outcome, got %v", report.Outcomes)
	}

	updated := testsupport.MustGet(t, store, movie.ID)
	if updated.PosterPath != "https://example/poster.jpg" {
		t.Fatalf("unexpected poster: %q", updated.PosterPath)
	}
	if !updated.Matched {
		t.Fatal("expected record marked matched")
	}
}

func TestMetadataServiceAdditiveOnly(t *testing.T) {
	store := openStore(t)
	movie := testsupport.InsertMovie(t, store, catalog.Movie{
		RegistryID: "1",
		Title:      "괴물",
		PosterPath: "local-poster.jpg",
	})
	searcher := &titleSearcher{byTitle: map[string][]archive.Candidate{
		"괴물": {{Title: "괴물", PosterPath: "archive-poster.jpg", BackdropPath: "still.jpg", Overview: "한강에 괴물이 나타난다"}},
	}}
	service := backfill.NewMetadataService(store, &fakeRegistry{}, newSelector(searcher), nil)

	report, err := service.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := backfill.MetadataReport{
		RequestedMovies:      1,
		SucceededMovies:      1,
		UpdatedBackdropCount: 1,
		UpdatedOverviewCount: 1,
		Outcomes:             map[backfill.Outcome]int{backfill.OutcomeMatched: 1},
	}
	if diff := cmp.Diff(want, report, ignoreMetadataRunInfo); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
	updated := testsupport.MustGet(t, store, movie.ID)
	if updated.PosterPath != "local-poster.jpg" {
		t.Fatalf("poster overwritten: %q", updated.PosterPath)
	}
	if updated.BackdropPath != "still.jpg" || updated.Overview != "한강에 괴물이 나타난다" {
		t.Fatalf("blank fields not filled: %+v", updated)
	}
}

func TestMetadataServiceGracefulDegradation(t *testing.T) {
	store := openStore(t)
	testsupport.InsertMovie(t, store, catalog.Movie{
		RegistryID:  "missing",
		Title:       "살인의 추억",
		ReleaseDate: testsupport.Date(2003, time.April, 25),
	})
	searcher := &titleSearcher{}
	service := backfill.NewMetadataService(store, &fakeRegistry{}, newSelector(searcher), nil)

	report, err := service.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(searcher.queries) == 0 {
		t.Fatal("expected archive search with local title")
	}
	first := searcher.queries[0]
	if first.Title != "살인의 추억" || first.Year != 2003 {
		t.Fatalf("expected local title and year, got %+v", first)
	}
	if report.IgnoredMovies != 1 || report.Outcomes[backfill.OutcomeNoArchiveResult] != 1 {
		t.Fatalf("expected ignored no-archive-result, got %+v", report)
	}
}

func TestMetadataServiceOutcomes(t *testing.T) {
	store := openStore(t)
	testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "1", Title: "Bare"})
	testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "2", Title: "Far off"})
	untitled := testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "3", Title: "placeholder"})
	testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "4", Title: "Boom"})
	untitled.Title = " "
	if err := store.Update(context.Background(), untitled); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	searcher := &titleSearcher{byTitle: map[string][]archive.Candidate{
		"Bare":    {{Title: "Bare"}},
		"Far off": {{Title: "Something else entirely"}},
	}}
	reg := &fakeRegistry{panicOn: "4"}
	service := backfill.NewMetadataService(store, reg, newSelector(searcher), nil)

	report, err := service.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := backfill.MetadataReport{
		RequestedMovies: 4,
		FailedMovies:    1,
		IgnoredMovies:   3,
		Outcomes: map[backfill.Outcome]int{
			backfill.OutcomeResultLacksPoster: 1,
			backfill.OutcomeBelowThreshold:    1,
			backfill.OutcomeNoRegistryData:    1,
			backfill.OutcomeFailed:            1,
		},
	}
	if diff := cmp.Diff(want, report, ignoreMetadataRunInfo); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestMetadataServiceDryRunEquivalence(t *testing.T) {
	seed := func(t *testing.T) (*catalog.Store, *catalog.Movie) {
		store := openStore(t)
		movie := testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "1", Title: "괴물", Overview: "local"})
		testsupport.InsertMovie(t, store, catalog.Movie{RegistryID: "2", Title: "Nothing"})
		return store, movie
	}
	searcher := func() *titleSearcher {
		return &titleSearcher{byTitle: map[string][]archive.Candidate{
			"괴물": {{Title: "괴물", PosterPath: "p.jpg", Overview: "archive"}},
		}}
	}

	dryStore, dryMovie := seed(t)
	dry, err := backfill.NewMetadataService(dryStore, &fakeRegistry{}, newSelector(searcher()), nil).Run(context.Background(), true)
	if err != nil {
		t.Fatalf("dry Run failed: %v", err)
	}
	realStore, _ := seed(t)
	real, err := backfill.NewMetadataService(realStore, &fakeRegistry{}, newSelector(searcher()), nil).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("real Run failed: %v", err)
	}

	if diff := cmp.Diff(real, dry, ignoreMetadataRunInfo); diff != "" {
		t.Fatalf("dry run diverged (-real +dry):\n%s", diff)
	}
	if !dry.DryRun || real.DryRun {
		t.Fatal("unexpected dry run flags")
	}
	untouched := testsupport.MustGet(t, dryStore, dryMovie.ID)
	if untouched.PosterPath != "" || untouched.Matched || untouched.Overview != "local" {
		t.Fatalf("dry run persisted changes: %+v", untouched)
	}
}
