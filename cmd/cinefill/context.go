package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cinefill/internal/archive"
	"cinefill/internal/catalog"
	"cinefill/internal/config"
	"cinefill/internal/logging"
	"cinefill/internal/matching"
	"cinefill/internal/notifications"
	"cinefill/internal/registry"
	"cinefill/internal/runlock"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore opens the catalog for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// exclusive runs fn while holding the backfill lock, with a fresh run id on
// the context.
func (c *commandContext) exclusive(cmd *cobra.Command, fn func(context.Context) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	guard := runlock.New(cfg.LockPath())
	err = guard.Do(func() error {
		ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
		return fn(ctx)
	})
	if errors.Is(err, runlock.ErrAlreadyRunning) {
		return fmt.Errorf("another backfill holds %s: %w", guard.Path(), err)
	}
	return err
}

// engine bundles the wired clients shared by the backfill services.
type engine struct {
	registry *registry.Client
	selector *matching.Selector
	notifier notifications.Service
	logger   *slog.Logger
}

// notify publishes the run summary, or the failure when runErr is set.
// Delivery errors are logged and never fail the command.
func (e *engine) notify(ctx context.Context, summary notifications.Summary, runErr error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if runErr != nil {
		err = e.notifier.NotifyRunFailed(ctx, summary.Kind, runErr)
	} else {
		err = e.notifier.NotifyRunCompleted(ctx, summary)
	}
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "run notification failed", "notification_failed",
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "run summary was not delivered"),
			logging.Error(err),
		)
	}
}

func (c *commandContext) newEngine() (*engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	registryClient, err := registry.New(
		cfg.Registry.APIKey,
		cfg.Registry.BaseURL,
		registry.WithTimeout(seconds(cfg.Registry.TimeoutSeconds)),
		registry.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("registry client: %w", err)
	}
	archiveClient, err := archive.New(
		cfg.Archive.APIKey,
		cfg.Archive.BaseURL,
		archive.WithCollection(cfg.Archive.Collection),
		archive.WithListCount(cfg.Archive.ListCount),
		archive.WithRateLimit(cfg.Archive.RateLimitPerSecond),
		archive.WithTimeout(seconds(cfg.Archive.TimeoutSeconds)),
		archive.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("archive client: %w", err)
	}

	scorer := matching.NewScorer(matching.WeightsFromConfig(cfg.Match))
	opts := append(matching.OptionsFromConfig(cfg), matching.WithLogger(logger))
	return &engine{
		registry: registryClient,
		selector: matching.NewSelector(archiveClient, scorer, opts...),
		notifier: notifications.NewService(cfg),
		logger:   logger,
	}, nil
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
