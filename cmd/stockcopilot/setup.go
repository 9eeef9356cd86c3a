package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/chart"
	"github.com/cosmocloud/stockcopilot/internal/collector"
	"github.com/cosmocloud/stockcopilot/internal/collector/polygon"
	"github.com/cosmocloud/stockcopilot/internal/collector/yahoo"
	"github.com/cosmocloud/stockcopilot/internal/config"
	"github.com/cosmocloud/stockcopilot/internal/llm/factory"
	"github.com/cosmocloud/stockcopilot/internal/logger"
	"github.com/cosmocloud/stockcopilot/internal/metrics"
	"github.com/cosmocloud/stockcopilot/internal/period"
	"github.com/cosmocloud/stockcopilot/internal/rating"
	"github.com/cosmocloud/stockcopilot/internal/storage/archive"
)

// loadConfig reads --config, or falls back to defaults, and validates.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newLogger honours --debug over the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if debug {
		return logger.NewWithLevel(true, "debug")
	}
	return logger.NewWithLevel(cfg.Log.Development, cfg.Log.Level)
}

// env bundles what a command needs.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	app     *app.App
	metrics *metrics.Registry
}

// setup loads config, builds the logger and wires the app.
func setup(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	if cfgFile == "" {
		log.Debug("no config file specified, using defaults")
	}

	a, err := buildApp(ctx, cfg, log, reg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &env{cfg: cfg, log: log, app: a, metrics: reg}, nil
}

// polygonHTTPClient bounds each Polygon REST call by its own timeout.
func polygonHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Collectors.Polygon.Timeout}
}

// buildApp wires the configured collaborators into an App.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger, reg *metrics.Registry) (*app.App, error) {
	registry := collector.NewRegistry()
	registry.Register(yahoo.New(yahoo.Options{
		BaseURL:   cfg.Collectors.Yahoo.BaseURL,
		UserAgent: cfg.Collectors.Yahoo.UserAgent,
		Timeout:   cfg.Collectors.Yahoo.Timeout,
	}))
	if cfg.Collectors.Polygon.APIKey != "" {
		p, err := polygon.New(cfg.Collectors.Polygon.APIKey, polygonHTTPClient(cfg))
		if err != nil {
			return nil, fmt.Errorf("creating polygon source: %w", err)
		}
		registry.Register(p)
	}

	source, ok := registry.Get(cfg.DataSource)
	if !ok {
		return nil, fmt.Errorf("data source %q not available (have %v)", cfg.DataSource, registry.Names())
	}

	names := cfg.Symbols.Popular
	if len(names) == 0 {
		names = period.PopularStocks
	}
	nse := period.NewSymbolSet(cfg.Symbols.NSE...)
	top := period.NewSymbolSet(cfg.Rating.TopInvestors...)
	normalizer := period.NewNormalizer(cfg.Symbols.Suffix, nse, names)

	engine := rating.NewEngine(
		rating.WithTopInvestors(top),
		rating.WithNormalizer(normalizer),
	)

	deps := app.Deps{
		Source:         source,
		Engine:         engine,
		Normalizer:     normalizer,
		Renderer:       chart.NewRenderer(
			chart.WithSize(cfg.Chart.Width, cfg.Chart.Height),
			chart.WithVolume(cfg.Chart.VolumeHeight),
		),
		Logger:         log,
		LLMMaxTokens:   cfg.LLM.MaxTokens,
		LLMTemperature: cfg.LLM.Temperature,
	}
	if reg != nil {
		deps.Metrics = reg
	}

	if cfg.Archive.Enabled {
		store, err := archive.New(cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating chart archive: %w", err)
		}
		deps.Archive = archive.NewCharts(store, archive.WithRetention(cfg.Archive.Keep))
	}

	if cfg.LLM.Provider != "" {
		provider, err := factory.New(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("creating LLM provider: %w", err)
		}
		deps.LLM = provider
	}

	log.Debug("app wired",
		zap.String("source", source.Name()),
		zap.String("llm", cfg.LLM.Provider),
		zap.Strings("suffixed_symbols", nse.Symbols()),
		zap.Int("top_investors", top.Len()),
		zap.Bool("archive", cfg.Archive.Enabled),
	)
	return app.New(deps)
}
