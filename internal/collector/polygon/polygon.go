package polygon

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/cosmocloud/stockcopilot/internal/collector"
	"github.com/cosmocloud/stockcopilot/internal/core"
)

// Polygon implements collector.Source on the Polygon.io REST API.
type Polygon struct {
	client *polygon.Client
	now    func() time.Time
}

// New creates a Polygon source. A nil http.Client uses the library default.
func New(apiKey string, hc *http.Client) (*Polygon, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon API key is required")
	}
	client := polygon.New(apiKey)
	if hc != nil {
		client = polygon.NewWithClient(apiKey, hc)
	}
	return &Polygon{client: client, now: time.Now}, nil
}

func (p *Polygon) Name() string {
	return "polygon"
}

// FetchBars lists aggregates covering a Yahoo-style range token. Range or
// interval tokens Polygon cannot express, and non-US listings, yield an
// empty series.
func (p *Polygon) FetchBars(ctx context.Context, symbol, period, interval string) (core.PriceSeries, error) {
	series := core.PriceSeries{Symbol: symbol, Period: period, Interval: interval}
	if core.DetectMarket(symbol) != core.MarketUS {
		return series, nil
	}

	span, ok := ParseInterval(interval)
	if !ok {
		return series, nil
	}
	end := p.now()
	start, sessions, ok := RangeStart(period, end)
	if !ok {
		return series, nil
	}

	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: span.Multiplier,
		Timespan:   span.Timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)
	for iter.Next() {
		agg := iter.Item()
		series.Bars = append(series.Bars, core.Bar{
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: int64(agg.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return core.PriceSeries{Symbol: symbol, Period: period, Interval: interval},
			fmt.Errorf("listing polygon aggregates: %w", err)
	}

	if sessions > 0 {
		series.Bars = LastSessions(series.Bars, sessions)
	}
	return series, nil
}

// FetchInfo maps ticker details onto a fundamentals snapshot. Polygon's
// reference data has no valuation ratios, so those stay missing.
func (p *Polygon) FetchInfo(ctx context.Context, symbol string) (core.Fundamentals, error) {
	if core.DetectMarket(symbol) != core.MarketUS {
		return core.EmptyFundamentals(symbol), nil
	}
	resp, err := p.client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: symbol})
	if err != nil {
		return core.EmptyFundamentals(symbol), fmt.Errorf("fetching polygon ticker details: %w", err)
	}

	d := resp.Results
	f := core.EmptyFundamentals(symbol)
	if d.Name != "" {
		f.LongName = d.Name
		delete(f.Missing, core.FieldLongName)
	}
	if d.MarketCap != 0 {
		f.MarketCap = d.MarketCap
		delete(f.Missing, core.FieldMarketCap)
	}
	if d.Description != "" {
		f.Summary = d.Description
		delete(f.Missing, core.FieldSummary)
	}
	if d.SICDescription != "" {
		f.Industry = d.SICDescription
		delete(f.Missing, core.FieldIndustry)
	}
	if d.Branding.LogoURL != "" {
		f.LogoURL = d.Branding.LogoURL
		delete(f.Missing, core.FieldLogoURL)
	}
	return f, nil
}

// Span is a Polygon aggregate bucket.
type Span struct {
	Multiplier int
	Timespan   models.Timespan
}

var intervalPattern = regexp.MustCompile(`^(\d+)(m|h|d|wk|mo)$`)

// ParseInterval converts a Yahoo interval token (30m, 1h, 1d, 1wk, 1mo)
// to a Polygon span.
func ParseInterval(interval string) (Span, bool) {
	m := intervalPattern.FindStringSubmatch(interval)
	if m == nil {
		return Span{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Span{}, false
	}
	switch m[2] {
	case "m":
		return Span{Multiplier: n, Timespan: models.Minute}, true
	case "h":
		return Span{Multiplier: n, Timespan: models.Hour}, true
	case "d":
		return Span{Multiplier: n, Timespan: models.Day}, true
	case "wk":
		return Span{Multiplier: n, Timespan: models.Week}, true
	default:
		return Span{Multiplier: n, Timespan: models.Month}, true
	}
}

// RangeStart returns the start time for a Yahoo range token ending at end.
// The empty token means the whole history.
// Session-counted ranges (1d, 5d) look back over extra calendar days to
// cover weekends and holidays and report how many sessions to keep.
func RangeStart(period string, end time.Time) (start time.Time, sessions int, ok bool) {
	switch period {
	case "1d":
		return end.AddDate(0, 0, -5), 1, true
	case "5d":
		return end.AddDate(0, 0, -10), 5, true
	case "1mo":
		return end.AddDate(0, -1, 0), 0, true
	case "3mo":
		return end.AddDate(0, -3, 0), 0, true
	case "6mo":
		return end.AddDate(0, -6, 0), 0, true
	case "1y":
		return end.AddDate(-1, 0, 0), 0, true
	case "2y":
		return end.AddDate(-2, 0, 0), 0, true
	case "5y":
		return end.AddDate(-5, 0, 0), 0, true
	case "10y":
		return end.AddDate(-10, 0, 0), 0, true
	case "ytd":
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location()), 0, true
	case "", collector.FullHistory:
		return time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0, true
	default:
		return time.Time{}, 0, false
	}
}

var exchangeTZ = loadExchangeTZ()

func loadExchangeTZ() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// LastSessions keeps the bars of the n most recent exchange trading days.
func LastSessions(bars []core.Bar, n int) []core.Bar {
	seen := 0
	var current string
	for i := len(bars) - 1; i >= 0; i-- {
		day := bars[i].Time.In(exchangeTZ).Format(time.DateOnly)
		if day != current {
			seen++
			current = day
			if seen > n {
				return bars[i+1:]
			}
		}
	}
	return bars
}
