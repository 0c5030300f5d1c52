package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cinefill/internal/registry"
)

const arrayPayload = `{"movieInfoResult":{"movieInfo":{
	"movieCd":"20020234","movieNm":"살인의 추억","movieNmEn":"Memories of Murder",
	"openDt":"20030425","prdtYear":"2003","showTm":"132분",
	"directors":[{"peopleNm":"봉준호"}],
	"actors":[{"peopleNm":"송강호"},{"peopleNm":" "},{"peopleNm":"김상경"}],
	"genres":[{"genreNm":"범죄"},{"genreNm":"드라마"}],
	"nations":[{"nationNm":"한국"},{"nationNm":"미국"}],
	"audits":[{"watchGradeNm":""},{"watchGradeNm":"15세이상관람가"}]
}}}`

const wrappedPayload = `{"movieInfoResult":{"movieInfo":{
	"movieNm":"괴물","prdtYear":"","openDt":"2006-07-27",
	"directors":{"director":[{"peopleNm":"봉준호"}]},
	"audits":{"audit":{"watchGradeNm":"12세이상관람가"}}
}}}`

func newServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/searchMovieInfo.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "key" {
			t.Errorf("expected key query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, baseURL string) *registry.Client {
	t.Helper()
	client, err := registry.New("key", baseURL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKeyAndBaseURL(t *testing.T) {
	if _, err := registry.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := registry.New("key", "  "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestLookupDecodesArrayPayload(t *testing.T) {
	server := newServer(t, arrayPayload, http.StatusOK)
	client := newClient(t, server.URL+"/")

	movie, ok := client.Lookup(context.Background(), "20020234")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	want := registry.Movie{
		RegistryID:     "20020234",
		Title:          "살인의 추억",
		EnglishTitle:   "Memories of Murder",
		OpenDate:       "20030425",
		ProductionYear: 2003,
		Runtime:        132,
		Nation:         "한국, 미국",
		Directors:      []string{"봉준호"},
		Cast:           []string{"송강호", "김상경"},
		Rating:         "15세이상관람가",
		Genres:         []string{"범죄", "드라마"},
	}
	if diff := cmp.Diff(want, movie); diff != "" {
		t.Fatalf("unexpected movie (-want +got):\n%s", diff)
	}
}

func TestLookupDecodesWrappedLists(t *testing.T) {
	server := newServer(t, wrappedPayload, http.StatusOK)
	client := newClient(t, server.URL)

	movie, ok := client.Lookup(context.Background(), "20060001")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if movie.RegistryID != "20060001" {
		t.Fatalf("expected fallback registry id, got %q", movie.RegistryID)
	}
	if movie.FirstDirector() != "봉준호" {
		t.Fatalf("unexpected director: %q", movie.FirstDirector())
	}
	if movie.Rating != "12세이상관람가" {
		t.Fatalf("unexpected rating: %q", movie.Rating)
	}
	if movie.Year() != 2006 {
		t.Fatalf("expected year from open date, got %d", movie.Year())
	}
}

func TestLookupDegradesToAbsent(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "server error", body: `{}`, status: http.StatusInternalServerError},
		{name: "malformed", body: `{"movieInfoResult":`, status: http.StatusOK},
		{name: "fault", body: `{"faultInfo":{"message":"invalid key","errorCode":"320010"}}`, status: http.StatusOK},
		{name: "empty", body: `{"movieInfoResult":{}}`, status: http.StatusOK},
		{name: "untitled", body: `{"movieInfoResult":{"movieInfo":{"movieCd":"1"}}}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.body, tt.status)
			client := newClient(t, server.URL)
			if _, ok := client.Lookup(context.Background(), "1"); ok {
				t.Fatal("expected lookup to report absence")
			}
		})
	}
}

func TestLookupBlankIDSkipsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request for blank id")
	}))
	t.Cleanup(server.Close)
	client := newClient(t, server.URL)
	if _, ok := client.Lookup(context.Background(), "  "); ok {
		t.Fatal("expected blank id to be absent")
	}
}

func TestLookupUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	client := newClient(t, url)
	if _, ok := client.Lookup(context.Background(), "20020234"); ok {
		t.Fatal("expected unreachable registry to be absent")
	}
}
