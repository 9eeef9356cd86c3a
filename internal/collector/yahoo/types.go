package yahoo

import (
	"time"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

// Yahoo API response types
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// bars converts the columnar payload, skipping samples without a close.
func (r chartResult) bars() []core.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	out := make([]core.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		c := at(q.Close, i)
		if c == nil {
			continue // Skip missing data
		}
		bar := core.Bar{Time: time.Unix(ts, 0).UTC(), Close: *c, Open: *c, High: *c, Low: *c}
		if v := at(q.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(q.High, i); v != nil {
			bar.High = *v
		}
		if v := at(q.Low, i); v != nil {
			bar.Low = *v
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		out = append(out, bar)
	}
	return out
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResult struct {
	Price *struct {
		LongName  string    `json:"longName"`
		MarketCap *rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		TrailingPE       *rawValue `json:"trailingPE"`
		FiftyTwoWeekHigh *rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *rawValue `json:"fiftyTwoWeekLow"`
		DividendYield    *rawValue `json:"dividendYield"`
		Beta             *rawValue `json:"beta"`
		MarketCap        *rawValue `json:"marketCap"`
	} `json:"summaryDetail"`
	SummaryProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"summaryProfile"`
	DefaultKeyStatistics *struct {
		TrailingEps   *rawValue `json:"trailingEps"`
		ProfitMargins *rawValue `json:"profitMargins"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		ProfitMargins *rawValue `json:"profitMargins"`
		DebtToEquity  *rawValue `json:"debtToEquity"`
	} `json:"financialData"`
}

// fundamentals maps the module payload onto a snapshot, recording every
// field Yahoo left out.
func (r summaryResult) fundamentals(symbol string) core.Fundamentals {
	f := core.Fundamentals{Symbol: symbol, Missing: map[string]bool{}}

	num := func(field string, dst *float64, candidates ...*rawValue) {
		for _, c := range candidates {
			if c != nil && c.Raw != nil {
				*dst = *c.Raw
				return
			}
		}
		f.MarkMissing(field)
	}
	text := func(field string, dst *string, v string) {
		if v == "" {
			f.MarkMissing(field)
			return
		}
		*dst = v
	}

	var (
		longName, sector, industry, summary string
		marketCap, pe, high, low, yield, beta *rawValue
		eps, margin, statsMargin, debt        *rawValue
	)
	if p := r.Price; p != nil {
		longName, marketCap = p.LongName, p.MarketCap
	}
	var detailCap *rawValue
	if d := r.SummaryDetail; d != nil {
		pe, high, low, yield, beta, detailCap = d.TrailingPE, d.FiftyTwoWeekHigh, d.FiftyTwoWeekLow, d.DividendYield, d.Beta, d.MarketCap
	}
	if p := r.SummaryProfile; p != nil {
		sector, industry, summary = p.Sector, p.Industry, p.LongBusinessSummary
	}
	if s := r.DefaultKeyStatistics; s != nil {
		eps, statsMargin = s.TrailingEps, s.ProfitMargins
	}
	if fd := r.FinancialData; fd != nil {
		margin, debt = fd.ProfitMargins, fd.DebtToEquity
	}

	text(core.FieldLongName, &f.LongName, longName)
	num(core.FieldMarketCap, &f.MarketCap, marketCap, detailCap)
	num(core.FieldTrailingPE, &f.TrailingPE, pe)
	num(core.FieldTrailingEPS, &f.TrailingEPS, eps)
	num(core.FieldProfitMargin, &f.ProfitMargin, margin, statsMargin)
	num(core.FieldDebtToEquity, &f.DebtToEquity, debt)
	num(core.FieldFiftyTwoWeekHigh, &f.FiftyTwoWeekHigh, high)
	num(core.FieldFiftyTwoWeekLow, &f.FiftyTwoWeekLow, low)
	num(core.FieldDividendYield, &f.DividendYield, yield)
	num(core.FieldBeta, &f.Beta, beta)
	text(core.FieldSector, &f.Sector, sector)
	text(core.FieldIndustry, &f.Industry, industry)
	text(core.FieldSummary, &f.Summary, summary)
	// Yahoo's quote summary carries no logo.
	f.MarkMissing(core.FieldLogoURL)

	return f
}
