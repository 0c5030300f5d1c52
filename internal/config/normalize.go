package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeRegistry()
	c.normalizeArchive()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.DBPath = strings.TrimSpace(c.Catalog.DBPath)
	if c.Catalog.DBPath == "" {
		c.Catalog.DBPath = filepath.Join(c.Paths.DataDir, defaultCatalogDBName)
	}
	var err error
	if c.Catalog.DBPath, err = expandPath(c.Catalog.DBPath); err != nil {
		return fmt.Errorf("catalog.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRegistry() {
	if c.Registry.APIKey == "" {
		if value, ok := os.LookupEnv("REGISTRY_API_KEY"); ok {
			c.Registry.APIKey = value
		}
	}
	c.Registry.APIKey = strings.TrimSpace(c.Registry.APIKey)
	c.Registry.BaseURL = strings.TrimRight(strings.TrimSpace(c.Registry.BaseURL), "/")
	if c.Registry.BaseURL == "" {
		c.Registry.BaseURL = defaultRegistryBaseURL
	}
	if c.Registry.TimeoutSeconds == 0 {
		c.Registry.TimeoutSeconds = defaultRegistryTimeoutSeconds
	}
}

func (c *Config) normalizeArchive() {
	if c.Archive.APIKey == "" {
		if value, ok := os.LookupEnv("ARCHIVE_API_KEY"); ok {
			c.Archive.APIKey = value
		}
	}
	c.Archive.APIKey = strings.TrimSpace(c.Archive.APIKey)
	c.Archive.BaseURL = strings.TrimRight(strings.TrimSpace(c.Archive.BaseURL), "/")
	if c.Archive.BaseURL == "" {
		c.Archive.BaseURL = defaultArchiveBaseURL
	}
	c.Archive.Collection = strings.TrimSpace(c.Archive.Collection)
	if c.Archive.Collection == "" {
		c.Archive.Collection = defaultArchiveCollection
	}
	if c.Archive.TimeoutSeconds == 0 {
		c.Archive.TimeoutSeconds = defaultArchiveTimeoutSeconds
	}
	if c.Archive.RateLimitPerSecond == 0 {
		c.Archive.RateLimitPerSecond = defaultArchiveRateLimit
	}
	switch {
	case c.Archive.ListCount <= 0:
		c.Archive.ListCount = defaultArchiveListCount
	case c.Archive.ListCount > maxArchiveListCount:
		c.Archive.ListCount = maxArchiveListCount
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeoutSeconds
	}
}
