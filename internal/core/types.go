package core

import (
	"strings"
	"time"
)

// Market represents a trading market
type Market string

const (
	MarketUS Market = "US"
	MarketIN Market = "IN"
	MarketHK Market = "HK"
)

// DetectMarket infers the listing market from the symbol suffix
func DetectMarket(symbol string) Market {
	upper := strings.ToUpper(symbol)
	switch {
	case strings.HasSuffix(upper, ".NS") || strings.HasSuffix(upper, ".BO"):
		return MarketIN
	case strings.HasSuffix(upper, ".HK"):
		return MarketHK
	default:
		return MarketUS
	}
}

// Bar is one OHLCV sample for a fixed time bucket
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is the chronological bar sequence returned for one
// symbol/period/interval request.
type PriceSeries struct {
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`
}

// Empty reports whether the series carries no bars ("no data").
func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Closes returns the close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Tail returns up to n most recent bars.
func (s PriceSeries) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// Fundamental field names, as reported by the provider.
const (
	FieldLongName         = "longName"
	FieldMarketCap        = "marketCap"
	FieldTrailingPE       = "trailingPE"
	FieldTrailingEPS      = "trailingEps"
	FieldProfitMargin     = "profitMargins"
	FieldDebtToEquity     = "debtToEquity"
	FieldFiftyTwoWeekHigh = "fiftyTwoWeekHigh"
	FieldFiftyTwoWeekLow  = "fiftyTwoWeekLow"
	FieldDividendYield    = "dividendYield"
	FieldSector           = "sector"
	FieldIndustry         = "industry"
	FieldBeta             = "beta"
	FieldSummary          = "longBusinessSummary"
	FieldLogoURL          = "logo_url"
)

// FundamentalFields lists every field a Fundamentals snapshot can carry.
var FundamentalFields = []string{
	FieldLongName, FieldMarketCap, FieldTrailingPE, FieldTrailingEPS,
	FieldProfitMargin, FieldDebtToEquity, FieldFiftyTwoWeekHigh, FieldFiftyTwoWeekLow,
	FieldDividendYield, FieldSector, FieldIndustry, FieldBeta, FieldSummary, FieldLogoURL,
}

// Fundamentals is a company info snapshot. Fields the provider did not
// return hold their zero value and are listed in Missing.
type Fundamentals struct {
	Symbol           string          `json:"symbol"`
	LongName         string          `json:"long_name"`
	MarketCap        float64         `json:"market_cap"`
	TrailingPE       float64         `json:"trailing_pe"`
	TrailingEPS      float64         `json:"trailing_eps"`
	ProfitMargin     float64         `json:"profit_margin"`
	DebtToEquity     float64         `json:"debt_to_equity"`
	FiftyTwoWeekHigh float64         `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64         `json:"fifty_two_week_low"`
	DividendYield    float64         `json:"dividend_yield"`
	Sector           string          `json:"sector"`
	Industry         string          `json:"industry"`
	Beta             float64         `json:"beta"`
	Summary          string          `json:"summary"`
	LogoURL          string          `json:"logo_url,omitempty"`
	Missing          map[string]bool `json:"missing,omitempty"`
}

// EmptyFundamentals returns a snapshot with every field marked missing.
func EmptyFundamentals(symbol string) Fundamentals {
	f := Fundamentals{Symbol: symbol, Missing: make(map[string]bool, len(FundamentalFields))}
	for _, name := range FundamentalFields {
		f.Missing[name] = true
	}
	return f
}

// IsMissing reports whether the provider omitted the named field.
func (f Fundamentals) IsMissing(field string) bool {
	return f.Missing[field]
}

// MarkMissing records that the named field was not supplied.
func (f *Fundamentals) MarkMissing(field string) {
	if f.Missing == nil {
		f.Missing = make(map[string]bool)
	}
	f.Missing[field] = true
}

// Partial reports whether any field is missing.
func (f Fundamentals) Partial() bool {
	return len(f.Missing) > 0
}

// DisplayName returns the long name, falling back to the symbol.
func (f Fundamentals) DisplayName() string {
	if f.LongName == "" || f.IsMissing(FieldLongName) {
		return f.Symbol
	}
	return f.LongName
}
