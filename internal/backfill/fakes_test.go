package backfill_test

import (
	"context"
	"testing"

	"cinefill/internal/archive"
	"cinefill/internal/catalog"
	"cinefill/internal/matching"
	"cinefill/internal/registry"
	"cinefill/internal/testsupport"
)

type fakeRegistry struct {
	records map[string]registry.Movie
	panicOn string
	lookups []string
}

func (f *fakeRegistry) Lookup(_ context.Context, id string) (registry.Movie, bool) {
	f.lookups = append(f.lookups, id)
	if f.panicOn != "" && id == f.panicOn {
		panic("registry exploded")
	}
	record, ok := f.records[id]
	return record, ok
}

// titleSearcher answers every query whose title matches a key.
type titleSearcher struct {
	byTitle map[string][]archive.Candidate
	queries []archive.Query
}

func (f *titleSearcher) Search(_ context.Context, q archive.Query) []archive.Candidate {
	f.queries = append(f.queries, q)
	return f.byTitle[q.Title]
}

func newSelector(searcher matching.Searcher) *matching.Selector {
	return matching.NewSelector(searcher, matching.NewScorer(matching.DefaultWeights()))
}

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}
