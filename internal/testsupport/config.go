package testsupport

import (
	"path/filepath"
	"testing"

	"cinefill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Registry.APIKey = "test"
	cfgVal.Archive.APIKey = "test"
	cfgVal.Archive.RateLimitPerSecond = 0
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.DBPath = filepath.Join(base, "data", "catalog.db")
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRegistryURL points the registry client at a test server.
func WithRegistryURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.BaseURL = url
	}
}

// WithArchiveURL points the archive client at a test server.
func WithArchiveURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.BaseURL = url
	}
}

// WithMatch overrides the match section.
func WithMatch(match config.Match) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Match = match
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
