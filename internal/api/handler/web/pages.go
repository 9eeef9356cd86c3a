// internal/api/handler/web/pages.go
package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/period"
)

// IndexData holds data for the search page template
type IndexData struct {
	Title string
	Query string
	Error string
}

// PeriodLink is one entry of the period selector on the result page.
type PeriodLink struct {
	Label  string
	URL    string
	Active bool
}

// ResultData holds data for the result page template
type ResultData struct {
	Title       string
	Symbol      string
	Period      string
	Price       string
	Change      string
	ChangePct   string
	Up          bool
	Rating      string
	Rated       bool
	TopInvestor bool
	Chart       template.URL
	Periods     []PeriodLink
	InfoURL     string
}

// InfoRow is one labelled fundamentals value.
type InfoRow struct {
	Label string
	Value string
}

// InfoData holds data for the fundamentals page template
type InfoData struct {
	Title   string
	Symbol  string
	Name    string
	LogoURL string
	Rows    []InfoRow
	Summary string
	Partial bool
}

// Index renders the search form on GET and runs a lookup on POST.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "index.html", IndexData{Title: "Stock Copilot"})
		return
	}

	raw := r.FormValue("stock")
	symbol := h.svc.Normalize(raw)
	if symbol == "" {
		h.render(w, http.StatusBadRequest, "index.html", IndexData{
			Title: "Stock Copilot",
			Error: "Please enter a stock symbol.",
		})
		return
	}

	h.result(w, r, symbol, period.DefaultWindow, raw)
}

// Result renders the rating and chart for /result/{stock}?period=. A
// missing period resolves like any unrecognized token: passed through
// unchanged with a daily interval.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	symbol := h.svc.Normalize(r.PathValue("stock"))
	h.result(w, r, symbol, period.Resolve(r.URL.Query().Get("period")), symbol)
}

func (h *Handler) result(w http.ResponseWriter, r *http.Request, symbol string, win period.Window, query string) {
	report, err := h.svc.Lookup(r.Context(), symbol, win)
	if err != nil {
		if !errors.Is(err, core.ErrNoData) {
			h.logger.Warn("lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
		h.render(w, http.StatusNotFound, "index.html", IndexData{
			Title: "Stock Copilot",
			Query: query,
			Error: core.NoDataMessage,
		})
		return
	}
	h.render(w, http.StatusOK, "result.html", newResultData(report))
}

func newResultData(report *app.Report) ResultData {
	data := ResultData{
		Title:       report.Symbol + " - Rating",
		Symbol:      report.Symbol,
		Period:      report.Window.Requested,
		Price:       formatNumber(report.Price),
		Change:      signed(report.Change),
		ChangePct:   signed(report.ChangePct) + "%",
		Up:          report.Change >= 0,
		Rating:      "N/A",
		Rated:       report.Rating.Available,
		TopInvestor: report.Rating.TopInvestor,
		InfoURL:     "/info/" + url.PathEscape(report.Symbol),
	}
	if report.HasChart() {
		// Built from our own PNG bytes, so the data: scheme is safe.
		data.Chart = template.URL("data:image/png;base64," + report.ChartBase64())
	}
	if report.Rating.Available {
		data.Rating = strconv.FormatFloat(report.Rating.Value(), 'f', 1, 64)
	}
	for _, p := range period.Selectable() {
		data.Periods = append(data.Periods, PeriodLink{
			Label:  p,
			URL:    "/result/" + url.PathEscape(report.Symbol) + "?period=" + url.QueryEscape(p),
			Active: p == report.Window.Requested,
		})
	}
	return data
}

// Info renders the fundamentals page for /info/{stock}
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	symbol := h.svc.Normalize(r.PathValue("stock"))
	f := h.svc.Info(r.Context(), symbol)
	h.render(w, http.StatusOK, "info.html", newInfoData(f))
}

func newInfoData(f core.Fundamentals) InfoData {
	data := InfoData{
		Title:   f.Symbol + " - Info",
		Symbol:  f.Symbol,
		Name:    f.DisplayName(),
		Summary: text(f, core.FieldSummary, f.Summary),
		Partial: f.Partial(),
	}
	if !f.IsMissing(core.FieldLogoURL) {
		data.LogoURL = f.LogoURL
	}
	data.Rows = []InfoRow{
		{"Market Cap", number(f, core.FieldMarketCap, f.MarketCap, formatMarketCap)},
		{"P/E Ratio", number(f, core.FieldTrailingPE, f.TrailingPE, formatNumber)},
		{"EPS", number(f, core.FieldTrailingEPS, f.TrailingEPS, formatNumber)},
		{"52 Week High", number(f, core.FieldFiftyTwoWeekHigh, f.FiftyTwoWeekHigh, formatNumber)},
		{"52 Week Low", number(f, core.FieldFiftyTwoWeekLow, f.FiftyTwoWeekLow, formatNumber)},
		{"Dividend Yield", number(f, core.FieldDividendYield, f.DividendYield, formatPercent)},
		{"Sector", text(f, core.FieldSector, f.Sector)},
		{"Industry", text(f, core.FieldIndustry, f.Industry)},
		{"Beta", number(f, core.FieldBeta, f.Beta, formatNumber)},
	}
	return data
}
