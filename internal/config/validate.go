package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func missingKeyError(field, envVar string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s is required. Set %s env var or edit %s (create with 'cinefill config init')", field, envVar, defaultPath)
}

func (c *Config) validateRegistry() error {
	if c.Registry.APIKey == "" {
		return missingKeyError("registry.api_key", "REGISTRY_API_KEY")
	}
	if c.Registry.BaseURL == "" {
		return errors.New("registry.base_url must be set")
	}
	if c.Registry.TimeoutSeconds < 0 {
		return errors.New("registry.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.APIKey == "" {
		return missingKeyError("archive.api_key", "ARCHIVE_API_KEY")
	}
	if c.Archive.BaseURL == "" {
		return errors.New("archive.base_url must be set")
	}
	if c.Archive.TimeoutSeconds < 0 {
		return errors.New("archive.timeout_seconds must be positive")
	}
	if c.Archive.RateLimitPerSecond < 0 {
		return errors.New("archive.rate_limit_per_second must be positive")
	}
	if c.Archive.ListCount < 1 || c.Archive.ListCount > maxArchiveListCount {
		return fmt.Errorf("archive.list_count must be between 1 and %d", maxArchiveListCount)
	}
	return nil
}

func (c *Config) validateMatch() error {
	if c.Match.MinScore <= 0 {
		return errors.New("match.min_score must be positive")
	}
	weights := map[string]int{
		"match.title_exact_score":    c.Match.TitleExactScore,
		"match.title_contains_score": c.Match.TitleContainsScore,
		"match.year_score":           c.Match.YearScore,
		"match.director_score":       c.Match.DirectorScore,
		"match.relaxed_min_score":    c.Match.RelaxedMinScore,
	}
	for name, value := range weights {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Match.RelaxedYearTolerance < 0 {
		return errors.New("match.relaxed_year_tolerance must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be auto, console, or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", topic)
	}
	return nil
}
