package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/chart"
	"github.com/cosmocloud/stockcopilot/internal/collector"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/indicator"
	"github.com/cosmocloud/stockcopilot/internal/insight"
	"github.com/cosmocloud/stockcopilot/internal/llm"
	"github.com/cosmocloud/stockcopilot/internal/metrics"
	"github.com/cosmocloud/stockcopilot/internal/period"
	"github.com/cosmocloud/stockcopilot/internal/rating"
	"github.com/cosmocloud/stockcopilot/internal/storage/archive"
)

// Fetch kinds used in metrics labels.
const (
	kindBars = "bars"
	kindInfo = "info"
)

// PricePlaces is the precision prices are reported at.
const PricePlaces = 3

// ChartRenderer draws a series as an image.
type ChartRenderer interface {
	Render(series core.PriceSeries, period string) ([]byte, error)
}

// Recorder receives business metrics. *metrics.Registry implements it.
type Recorder interface {
	RecordRating(outcome string, score float64)
	RecordFetch(source, kind string, duration float64, err error)
	RecordChart(ok bool)
	RecordInsight(ok bool)
	RecordAIRating(ok bool)
	RecordArchiveWrite(ok bool)
}

// Deps are the collaborators of an App. Source is required; nil
// optional fields fall back to defaults or disable the feature.
type Deps struct {
	Source     collector.Source
	Engine     *rating.Engine
	Normalizer *period.Normalizer
	Renderer   ChartRenderer
	Archive    *archive.Charts
	LLM        llm.Provider
	Metrics    Recorder
	Logger     *zap.Logger

	LLMMaxTokens   int
	LLMTemperature float64
}

// App runs request-scoped lookups: resolve, fetch, rate, render.
type App struct {
	source     collector.Source
	engine     *rating.Engine
	normalizer *period.Normalizer
	renderer   ChartRenderer
	archive    *archive.Charts
	insight    *insight.Generator
	aiRater    *rating.AIRater
	llmEnabled bool
	metrics    Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a new App instance
func New(deps Deps) (*App, error) {
	if deps.Source == nil {
		return nil, core.WrapError(core.ErrCollectorUnavailable, errors.New("no market data source configured"))
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		source:     deps.Source,
		engine:     deps.Engine,
		normalizer: deps.Normalizer,
		renderer:   deps.Renderer,
		archive:    deps.Archive,
		llmEnabled: deps.LLM != nil,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
	if a.engine == nil {
		a.engine = rating.NewEngine()
	}
	if a.normalizer == nil {
		a.normalizer = period.DefaultNormalizer()
	}
	if a.renderer == nil {
		a.renderer = chart.NewRenderer()
	}
	if a.metrics == nil {
		a.metrics = nopRecorder{}
	}

	opts := []insight.Option{insight.WithObserver(a.metrics.RecordInsight)}
	if deps.LLMMaxTokens > 0 {
		opts = append(opts, insight.WithMaxTokens(deps.LLMMaxTokens))
	}
	if deps.LLMTemperature > 0 {
		opts = append(opts, insight.WithTemperature(deps.LLMTemperature))
	}
	a.insight = insight.NewGenerator(deps.LLM, logger.Named("insight"), opts...)
	a.aiRater = rating.NewAIRater(deps.LLM, logger.Named("ai_rating"))

	return a, nil
}

// SourceName reports which market data source is in use.
func (a *App) SourceName() string {
	return a.source.Name()
}

// LLMEnabled reports whether a language model is configured.
func (a *App) LLMEnabled() bool {
	return a.llmEnabled
}

// Normalize converts user input to a data-source ticker.
func (a *App) Normalize(raw string) string {
	return a.normalizer.Normalize(raw)
}

// IsTopInvestor reports whether symbol gets the top-investor bonus.
func (a *App) IsTopInvestor(symbol string) bool {
	return a.engine.IsTopInvestor(symbol)
}

// Report is the outcome of one lookup.
type Report struct {
	Symbol        string           `json:"symbol"`
	Window        period.Window    `json:"window"`
	Price         float64          `json:"price"`
	PreviousClose float64          `json:"previous_close"`
	Change        float64          `json:"change"`
	ChangePct     float64          `json:"change_pct"`
	Rating        rating.Result    `json:"rating"`
	Series        core.PriceSeries `json:"-"`
	Chart         []byte           `json:"-"`
	ChartPath     string           `json:"chart_path,omitempty"`
	AsOf          time.Time        `json:"as_of"`
}

// HasChart reports whether a chart was rendered.
func (r *Report) HasChart() bool {
	return len(r.Chart) > 0
}

// ChartBase64 returns the chart for inline embedding, or "".
func (r *Report) ChartBase64() string {
	if !r.HasChart() {
		return ""
	}
	return chart.EncodeBase64(r.Chart)
}

// LookupPeriod resolves the requested period token and runs Lookup.
func (a *App) LookupPeriod(ctx context.Context, symbol, requested string) (*Report, error) {
	return a.Lookup(ctx, symbol, period.Resolve(requested))
}

// Lookup fetches the window, rates it against the trailing month and
// renders a chart. symbol must already be normalized. An empty window
// returns core.ErrNoData; chart and archive failures only drop the chart.
func (a *App) Lookup(ctx context.Context, symbol string, w period.Window) (*Report, error) {
	series := a.fetchBars(ctx, symbol, w.Period, w.Interval)
	latest, ok := series.Last()
	if !ok {
		a.metrics.RecordRating(metrics.OutcomeNoData, 0)
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("%s %s/%s", symbol, w.Period, w.Interval))
	}

	month := a.fetchBars(ctx, symbol, period.MonthWindow.Period, period.MonthWindow.Interval)
	result := a.engine.Rate(symbol, series, month)
	if result.Available {
		a.metrics.RecordRating(metrics.OutcomeRated, result.Score)
	} else {
		a.metrics.RecordRating(metrics.OutcomeUnrated, 0)
	}

	prev := latest.Close
	if n := len(series.Bars); n > 1 {
		prev = series.Bars[n-2].Close
	}

	report := &Report{
		Symbol:        symbol,
		Window:        w,
		Price:         indicator.Round(latest.Close, PricePlaces),
		PreviousClose: indicator.Round(prev, PricePlaces),
		Change:        indicator.Round(latest.Close-prev, PricePlaces),
		ChangePct:     indicator.Round(indicator.PercentChange(prev, latest.Close), 2),
		Rating:        result,
		Series:        series,
		AsOf:          a.now(),
	}

	a.renderChart(ctx, report)

	a.logger.Debug("lookup complete",
		zap.String("symbol", symbol),
		zap.String("period", w.Period),
		zap.String("interval", w.Interval),
		zap.Int("bars", len(series.Bars)),
		zap.Float64("rating", result.Value()),
		zap.Bool("chart", report.HasChart()),
	)
	return report, nil
}

func (a *App) renderChart(ctx context.Context, report *Report) {
	png, err := a.renderer.Render(report.Series, report.Window.Period)
	a.metrics.RecordChart(err == nil)
	if err != nil {
		a.logger.Info("chart unavailable",
			zap.String("symbol", report.Symbol),
			zap.Error(err))
		return
	}
	report.Chart = png

	if a.archive == nil {
		return
	}
	p, err := a.archive.Save(ctx, report.Symbol, report.Window.Period, png, report.AsOf)
	a.metrics.RecordArchiveWrite(err == nil)
	if err != nil {
		a.logger.Warn("chart archive failed",
			zap.String("symbol", report.Symbol),
			zap.Error(err))
		return
	}
	report.ChartPath = p
}

// Chart renders the chart alone for symbol over the requested period.
// When the source has nothing and an archive is configured, the most
// recent archived chart for the same window is served instead.
func (a *App) Chart(ctx context.Context, symbol, requested string) ([]byte, error) {
	w := period.Resolve(requested)
	series := a.fetchBars(ctx, symbol, w.Period, w.Interval)
	if series.Empty() {
		if png, ok := a.archivedChart(ctx, symbol, w); ok {
			return png, nil
		}
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("%s %s/%s", symbol, w.Period, w.Interval))
	}
	png, err := a.renderer.Render(series, w.Period)
	a.metrics.RecordChart(err == nil)
	return png, err
}

func (a *App) archivedChart(ctx context.Context, symbol string, w period.Window) ([]byte, bool) {
	if a.archive == nil {
		return nil, false
	}
	png, ok, err := a.archive.Latest(ctx, symbol, w.Period)
	if err != nil {
		a.logger.Warn("archived chart unavailable",
			zap.String("symbol", symbol),
			zap.String("period", w.Period),
			zap.Error(err))
		return nil, false
	}
	if ok {
		a.logger.Debug("serving archived chart",
			zap.String("symbol", symbol),
			zap.String("period", w.Period))
	}
	return png, ok
}

// Info returns the fundamentals snapshot. Provider failures degrade to a
// snapshot with every field missing.
func (a *App) Info(ctx context.Context, symbol string) core.Fundamentals {
	start := time.Now()
	f, err := a.source.FetchInfo(ctx, symbol)
	a.metrics.RecordFetch(a.source.Name(), kindInfo, time.Since(start).Seconds(), err)
	if err != nil {
		a.logger.Warn("info fetch failed",
			zap.String("symbol", symbol),
			zap.String("source", a.source.Name()),
			zap.Error(core.WrapError(core.ErrCollectorFailed, err)))
		return core.EmptyFundamentals(symbol)
	}
	if f.Partial() {
		a.logger.Debug("fundamentals incomplete",
			zap.String("symbol", symbol),
			zap.Error(core.ErrPartialFundamentals),
			zap.Int("missing", len(f.Missing)))
	}
	return f
}

// Ask answers a question about symbol grounded on its recent prices and
// fundamentals. An unknown symbol returns core.ErrNoData; model failures
// yield the insight apology text.
func (a *App) Ask(ctx context.Context, symbol, requested, question string, history []llm.Message) (string, error) {
	w := period.Resolve(requested)
	series := a.fetchBars(ctx, symbol, w.Period, w.Interval)
	if series.Empty() {
		return "", core.WrapError(core.ErrNoData, fmt.Errorf("%s %s/%s", symbol, w.Period, w.Interval))
	}
	info := a.Info(ctx, symbol)
	return a.insight.Ask(ctx, insight.BuildContext(symbol, info, series), history, question), nil
}

// AIRating asks the language model to rate symbol from its fundamentals.
// Any failure yields 0.
func (a *App) AIRating(ctx context.Context, symbol string) float64 {
	score := a.aiRater.Rate(ctx, a.Info(ctx, symbol))
	a.metrics.RecordAIRating(score != 0)
	return score
}

// fetchBars wraps the source so transport errors read as no data.
func (a *App) fetchBars(ctx context.Context, symbol, p, interval string) core.PriceSeries {
	start := time.Now()
	series, err := a.source.FetchBars(ctx, symbol, p, interval)
	a.metrics.RecordFetch(a.source.Name(), kindBars, time.Since(start).Seconds(), err)
	if err != nil {
		a.logger.Warn("bar fetch failed",
			zap.String("symbol", symbol),
			zap.String("source", a.source.Name()),
			zap.String("period", p),
			zap.String("interval", interval),
			zap.Error(core.WrapError(core.ErrCollectorFailed, err)))
		return core.PriceSeries{Symbol: symbol, Period: p, Interval: interval}
	}
	return series
}

type nopRecorder struct{}

func (nopRecorder) RecordRating(string, float64)               {}
func (nopRecorder) RecordFetch(string, string, float64, error) {}
func (nopRecorder) RecordChart(bool)                           {}
func (nopRecorder) RecordInsight(bool)                         {}
func (nopRecorder) RecordAIRating(bool)                        {}
func (nopRecorder) RecordArchiveWrite(bool)                    {}
