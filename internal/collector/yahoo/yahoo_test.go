package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cosmocloud/stockcopilot/internal/collector"
	"github.com/cosmocloud/stockcopilot/internal/core"
)

const chartFixture = `{"chart":{"result":[{"timestamp":[1704205800,1704292200,1704378600],
"indicators":{"quote":[{"open":[185.0,null,181.9],"high":[188.4,null,183.0],"low":[183.8,null,180.8],
"close":[185.6,null,182.1],"volume":[82488700,null,71983600]}]}}],"error":null}}`

const summaryFixture = `{"quoteSummary":{"result":[{
"price":{"longName":"Apple Inc.","marketCap":{"raw":2.9e12,"fmt":"2.9T"}},
"summaryDetail":{"trailingPE":{"raw":29.1},"fiftyTwoWeekHigh":{"raw":199.6},"fiftyTwoWeekLow":{"raw":164.1},"beta":{"raw":1.29}},
"summaryProfile":{"sector":"Technology","industry":"Consumer Electronics","longBusinessSummary":"Apple designs smartphones."},
"defaultKeyStatistics":{"trailingEps":{"raw":6.43}},
"financialData":{"profitMargins":{"raw":0.253},"debtToEquity":{"raw":181.3}}
}],"error":null}}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected User-Agent header")
		}
		switch r.URL.Path {
		case "/v8/finance/chart/AAPL":
			if r.URL.Query().Get("range") != "5d" || r.URL.Query().Get("interval") != "1h" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(chartFixture))
		case "/v10/finance/quoteSummary/AAPL":
			w.Write([]byte(summaryFixture))
		case "/v8/finance/chart/BROKEN", "/v10/finance/quoteSummary/BROKEN":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		}
	}))
}

func TestYahoo_ImplementsSource(t *testing.T) {
	var _ collector.Source = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New(Options{})
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
	if y.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", y.baseURL)
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "RELIANCE.NS", "0700.HK", "BRK-B", "^GSPC"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%s) unexpected error: %v", s, err)
		}
	}
	invalid := []string{"", "AAPL/../x", "A B", "THISISAVERYLONGSYMBOLNAME"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%q) expected error", s)
		}
	}
}

func TestYahoo_FetchBars(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	series, err := y.FetchBars(context.Background(), "AAPL", "5d", "1h")
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(series.Bars) != 2 {
		t.Fatalf("expected null sample skipped, got %d bars", len(series.Bars))
	}
	if series.Bars[1].Close != 182.1 || series.Bars[1].Volume != 71983600 {
		t.Errorf("unexpected bar %+v", series.Bars[1])
	}
	if !series.Bars[0].Time.Before(series.Bars[1].Time) {
		t.Error("bars should be chronological")
	}
	if series.Period != "5d" || series.Interval != "1h" {
		t.Errorf("window not recorded: %+v", series)
	}
}

func TestYahoo_FetchBars_EmptyPeriodAsksForFullHistory(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("range")
		w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	series, err := y.FetchBars(context.Background(), "AAPL", "", "1d")
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if got != collector.FullHistory {
		t.Errorf("expected range=%s, got %q", collector.FullHistory, got)
	}
	if series.Period != "" || len(series.Bars) != 2 {
		t.Errorf("unexpected series %+v", series)
	}
}

func TestYahoo_FetchBars_UnknownSymbol(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	series, err := y.FetchBars(context.Background(), "ZZZZZZ", "1mo", "1d")
	if err != nil {
		t.Fatalf("unknown symbol should not error: %v", err)
	}
	if !series.Empty() {
		t.Error("expected empty series")
	}

	series, err = y.FetchBars(context.Background(), "not a symbol", "1mo", "1d")
	if err != nil || !series.Empty() {
		t.Errorf("malformed symbol should give empty series, got %v %v", series, err)
	}
}

func TestYahoo_FetchBars_TransportError(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	if _, err := y.FetchBars(context.Background(), "BROKEN", "1d", "30m"); err == nil {
		t.Error("expected error on 500")
	}
}

func TestYahoo_FetchInfo(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	f, err := y.FetchInfo(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchInfo: %v", err)
	}
	if f.LongName != "Apple Inc." || f.MarketCap != 2.9e12 || f.TrailingEPS != 6.43 {
		t.Errorf("unexpected fundamentals %+v", f)
	}
	if f.ProfitMargin != 0.253 || f.DebtToEquity != 181.3 || f.Industry != "Consumer Electronics" {
		t.Errorf("unexpected fundamentals %+v", f)
	}
	if !f.IsMissing(core.FieldDividendYield) {
		t.Error("dividend yield was absent and should be marked missing")
	}
	if f.IsMissing(core.FieldTrailingPE) {
		t.Error("trailing PE was present")
	}
}

func TestYahoo_FetchInfo_Unknown(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	y := New(Options{BaseURL: srv.URL})
	f, err := y.FetchInfo(context.Background(), "ZZZZZZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range core.FundamentalFields {
		if !f.IsMissing(field) {
			t.Errorf("expected %s missing", field)
		}
	}
}
