package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cinefill/internal/config"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func setKeys(t *testing.T) {
	t.Helper()
	t.Setenv("REGISTRY_API_KEY", "registry-key")
	t.Setenv("ARCHIVE_API_KEY", "archive-key")
}

func TestLoadDefaultConfigUsesEnvKeysAndExpandsPaths(t *testing.T) {
	setKeys(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "cinefill")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Catalog.DBPath != filepath.Join(wantData, "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.DBPath)
	}
	if cfg.Registry.APIKey != "registry-key" {
		t.Fatalf("expected registry key from env, got %q", cfg.Registry.APIKey)
	}
	if cfg.Archive.APIKey != "archive-key" {
		t.Fatalf("expected archive key from env, got %q", cfg.Archive.APIKey)
	}
	if cfg.Archive.BaseURL != config.Default().Archive.BaseURL {
		t.Fatalf("unexpected archive base url: %q", cfg.Archive.BaseURL)
	}
	if cfg.Match.MinScore != 70 || cfg.Match.TitleExactScore != 70 || cfg.Match.TitleContainsScore != 40 {
		t.Fatalf("unexpected match defaults: %+v", cfg.Match)
	}
	if cfg.Match.YearScore != 30 || cfg.Match.DirectorScore != 20 {
		t.Fatalf("unexpected match defaults: %+v", cfg.Match)
	}
	if !cfg.Match.PreferPosterOnTie {
		t.Fatal("expected poster tie-break enabled by default")
	}
	if cfg.Match.RelaxedMinScore != 0 {
		t.Fatalf("expected relaxed acceptance disabled by default, got %d", cfg.Match.RelaxedMinScore)
	}
	if cfg.Archive.ListCount != 10 {
		t.Fatalf("unexpected list count: %d", cfg.Archive.ListCount)
	}
	if cfg.Logging.Format != "auto" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if got := cfg.LockPath(); got != filepath.Join(wantData, "backfill.lock") {
		t.Fatalf("unexpected lock path: %q", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	setKeys(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Archive struct {
			BaseURL   string `toml:"base_url"`
			ListCount int    `toml:"list_count"`
		} `toml:"archive"`
		Match struct {
			MinScore          int  `toml:"min_score"`
			PreferPosterOnTie bool `toml:"prefer_poster_on_tie"`
		} `toml:"match"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}{}
	payload.Paths.DataDir = "~/catalog"
	payload.Archive.BaseURL = "http://archive.local/"
	payload.Archive.ListCount = 25
	payload.Match.MinScore = 90
	payload.Match.PreferPosterOnTie = false
	payload.Logging.Format = " JSON "
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "catalog") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Archive.BaseURL != "http://archive.local" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Archive.BaseURL)
	}
	if cfg.Archive.ListCount != 10 {
		t.Fatalf("expected list count clamped to 10, got %d", cfg.Archive.ListCount)
	}
	if cfg.Match.MinScore != 90 {
		t.Fatalf("unexpected min score: %d", cfg.Match.MinScore)
	}
	if cfg.Match.PreferPosterOnTie {
		t.Fatal("expected tie-break disabled by file")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "missing registry key", mutate: func(c *config.Config) { c.Registry.APIKey = "" }, want: "registry.api_key"},
		{name: "missing archive key", mutate: func(c *config.Config) { c.Archive.APIKey = "" }, want: "archive.api_key"},
		{name: "zero threshold", mutate: func(c *config.Config) { c.Match.MinScore = 0 }, want: "match.min_score"},
		{name: "negative weight", mutate: func(c *config.Config) { c.Match.YearScore = -1 }, want: "match.year_score"},
		{name: "list count", mutate: func(c *config.Config) { c.Archive.ListCount = 11 }, want: "archive.list_count"},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, want: "logging.format"},
		{name: "ntfy topic", mutate: func(c *config.Config) { c.Notifications.NtfyTopic = "cinefill" }, want: "notifications.ntfy_topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Registry.APIKey = "registry-key"
			cfg.Archive.APIKey = "archive-key"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingKeyMentionsEnvVar(t *testing.T) {
	t.Setenv("REGISTRY_API_KEY", "")
	t.Setenv("ARCHIVE_API_KEY", "archive-key")
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing registry key")
	}
	if !strings.Contains(err.Error(), "REGISTRY_API_KEY") {
		t.Fatalf("expected env var hint, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	setKeys(t)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Archive.Collection != "kmdb_new2" {
		t.Fatalf("unexpected collection: %q", cfg.Archive.Collection)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Catalog.DBPath = filepath.Join(base, "db", "catalog.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, filepath.Dir(cfg.Catalog.DBPath)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
