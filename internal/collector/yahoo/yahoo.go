package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cosmocloud/stockcopilot/internal/collector"
	"github.com/cosmocloud/stockcopilot/internal/core"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0"

	summaryModules = "price,summaryDetail,summaryProfile,defaultKeyStatistics,financialData"
)

// validSymbol matches stock symbols like AAPL, BRK-B, RELIANCE.NS, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9^][A-Za-z0-9\-]{0,14}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Options configures the Yahoo source.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Yahoo implements collector.Source on the public Yahoo Finance endpoints
type Yahoo struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// New creates a new Yahoo source
func New(opts Options) *Yahoo {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Yahoo{
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchBars fetches OHLCV bars for a Yahoo range token (1d, 5d, 1mo, ...)
// and bar interval. Unknown symbols yield an empty series.
func (y *Yahoo) FetchBars(ctx context.Context, symbol, period, interval string) (core.PriceSeries, error) {
	series := core.PriceSeries{Symbol: symbol, Period: period, Interval: interval}
	if err := validateSymbol(symbol); err != nil {
		return series, nil
	}

	rng := period
	if rng == "" {
		rng = collector.FullHistory
	}
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(symbol), q.Encode())

	var result chartResponse
	found, err := y.getJSON(ctx, u, &result)
	if err != nil {
		return series, fmt.Errorf("fetching chart: %w", err)
	}
	if !found || result.Chart.Error != nil || len(result.Chart.Result) == 0 {
		return series, nil
	}

	series.Bars = result.Chart.Result[0].bars()
	return series, nil
}

// FetchInfo fetches the company fundamentals snapshot.
func (y *Yahoo) FetchInfo(ctx context.Context, symbol string) (core.Fundamentals, error) {
	if err := validateSymbol(symbol); err != nil {
		return core.EmptyFundamentals(symbol), nil
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", y.baseURL, url.PathEscape(symbol), summaryModules)

	var result summaryResponse
	found, err := y.getJSON(ctx, u, &result)
	if err != nil {
		return core.EmptyFundamentals(symbol), fmt.Errorf("fetching quote summary: %w", err)
	}
	if !found || result.QuoteSummary.Error != nil || len(result.QuoteSummary.Result) == 0 {
		return core.EmptyFundamentals(symbol), nil
	}

	return result.QuoteSummary.Result[0].fundamentals(symbol), nil
}

// getJSON decodes a GET response into out. found is false on 404.
func (y *Yahoo) getJSON(ctx context.Context, u string, out any) (found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return true, nil
}
