package preflight

import (
	"context"
	"net/url"

	"cinefill/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckCatalog(ctx, cfg),
	}

	registryParams := url.Values{}
	registryParams.Set("key", cfg.Registry.APIKey)
	registryParams.Set("movieCd", probeRegistryID)
	results = append(results, CheckEndpoint(ctx, "Film registry", cfg.Registry.BaseURL+"/movie/searchMovieInfo.json", registryParams))

	archiveParams := url.Values{}
	archiveParams.Set("collection", cfg.Archive.Collection)
	archiveParams.Set("ServiceKey", cfg.Archive.APIKey)
	archiveParams.Set("listCount", "1")
	archiveParams.Set("title", probeArchiveTitle)
	results = append(results, CheckEndpoint(ctx, "Film archive", cfg.Archive.BaseURL+"/search_api/search_json2.jsp", archiveParams))

	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
