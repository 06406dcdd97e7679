// Package container provides dependency injection for ledger-analytics.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/ledger-analytics/internal/analytics"
	"fjacquet/ledger-analytics/internal/cache"
	"fjacquet/ledger-analytics/internal/colors"
	"fjacquet/ledger-analytics/internal/config"
	"fjacquet/ledger-analytics/internal/ledger"
	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/report"
)

// Container holds all application dependencies and provides methods to access them.
// The memo and the color assigner are owned here and shared by every engine view, so
// a process has exactly one cache.
//
// Container is immutable after creation; fields are only reachable through getters.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	memo     *cache.Memo
	janitor  *cache.Janitor
	colors   *colors.Assigner
	engine   *analytics.Engine
	loader   *ledger.Loader
	reporter *report.Generator
}

// NewContainer creates and wires all application dependencies. Extra engine options
// are applied after the configured ones, which lets tests pin the clock.
func NewContainer(cfg *config.Config, engineOpts ...analytics.Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return build(cfg, logger, engineOpts)
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger, engineOpts ...analytics.Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return build(cfg, logger, engineOpts)
}

func build(cfg *config.Config, logger logging.Logger, engineOpts []analytics.Option) (*Container, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve analytics timezone: %w", err)
	}

	memo := cache.New(cfg.TTL(), cfg.Cache.MaxEntries, cache.WithLogger(logger))
	assigner := colors.NewAssigner(cfg.Analytics.Palette)

	opts := []analytics.Option{
		analytics.WithCache(memo),
		analytics.WithColors(assigner),
		analytics.WithLocation(loc),
		analytics.WithLogger(logger),
		analytics.WithTopLimit(cfg.Analytics.TopCategoriesLimit),
	}
	engine := analytics.NewEngine(append(opts, engineOpts...)...)

	janitor := cache.NewJanitor(logger, memo)
	if interval := cfg.CleanupInterval(); interval > 0 {
		janitor.Start(interval)
	}

	logger.Debug("Container initialized",
		logging.F("ttl", cfg.TTL().String()),
		logging.F("max_entries", cfg.Cache.MaxEntries),
		logging.F("timezone", loc.String()))

	return &Container{
		logger:   logger,
		config:   cfg,
		memo:     memo,
		janitor:  janitor,
		colors:   assigner,
		engine:   engine,
		loader:   ledger.NewLoader(logger, ledger.WithLocation(loc)),
		reporter: report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the unscoped analytics engine.
func (c *Container) GetEngine() *analytics.Engine {
	return c.engine
}

// GetCache returns the shared analytics memo.
func (c *Container) GetCache() *cache.Memo {
	return c.memo
}

// GetColors returns the shared category color assigner.
func (c *Container) GetColors() *colors.Assigner {
	return c.colors
}

// GetLoader returns the snapshot loader.
func (c *Container) GetLoader() *ledger.Loader {
	return c.loader
}

// GetReporter returns the report generator.
func (c *Container) GetReporter() *report.Generator {
	return c.reporter
}

// Close stops the cache janitor. It is safe to call more than once.
func (c *Container) Close() error {
	c.janitor.Stop()
	c.logger.Debug("Container closed")
	return nil
}
