package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cinefill/internal/config"
	"cinefill/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

const registryPayload = `{"movieInfoResult":{"movieInfo":{"movieCd":"20020234","movieNm":"Two Towers : Part 2","prdtYear":"2002","directors":[{"peopleNm":"P.J."}],"genres":[{"genreNm":"판타지"},{"genreNm":"드라마"}]}}}`

const archivePayload = `{"Data":[{"Result":[{"title":"Two Towers : Part 2","prodYear":"2002","directors":{"director":[{"directorNm":"P.J."}]},"posters":"https://example/poster.jpg","plots":{"plot":[{"plotText":"The fellowship is broken."}]}}]}]}`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("REGISTRY_API_KEY", "")
	t.Setenv("ARCHIVE_API_KEY", "")

	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("movieCd") != "20020234" {
			_, _ = w.Write([]byte(`{"movieInfoResult":{}}`))
			return
		}
		_, _ = w.Write([]byte(registryPayload))
	}))
	t.Cleanup(registryServer.Close)
	archiveServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(archivePayload))
	}))
	t.Cleanup(archiveServer.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithRegistryURL(registryServer.URL),
		testsupport.WithArchiveURL(archiveServer.URL),
	)
	cfg.Registry.APIKey = "registry-secret"
	cfg.Archive.APIKey = "archive-secret"

	configPath := filepath.Join(homeDir, ".config", "cinefill", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}
