package rating

import (
	"math"

	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/indicator"
	"github.com/cosmocloud/stockcopilot/internal/period"
)

// Scoring constants.
const (
	BaseScore = 5.0
	MinScore  = 1.0
	MaxScore  = 10.0

	MaxMomentumBonus    = 3.0
	MomentumDivisor     = 10.0
	VolatilityThreshold = 0.05
	MaxVolatilityCut    = 2.0
	VolatilityFactor    = 20.0
	TopInvestorBonus    = 1.0
)

// DefaultTopInvestors are symbols that receive the institutional-interest bonus.
var DefaultTopInvestors = period.NewSymbolSet("AAPL", "MSFT", "GOOGL")

// Input holds the numbers the score is derived from.
type Input struct {
	LatestClose float64
	MonthOpen   float64
	MonthStdDev float64
	TopInvestor bool
}

// MonthPerformance returns the percent move from MonthOpen to LatestClose.
func (in Input) MonthPerformance() float64 {
	return indicator.PercentChange(in.MonthOpen, in.LatestClose)
}

// HighVolatility reports whether the std-dev exceeds 5% of the latest close.
func (in Input) HighVolatility() bool {
	return in.MonthStdDev > in.LatestClose*VolatilityThreshold
}

// Result is a computed rating. Available is false when either price
// window was empty; Value then reports 0.
type Result struct {
	Score       float64 `json:"score"`
	Available   bool    `json:"available"`
	TopInvestor bool    `json:"top_investor"`
}

// Value returns the score for display, 0 when no rating is available.
func (r Result) Value() float64 {
	if !r.Available {
		return 0
	}
	return r.Score
}

// Engine computes heuristic ratings.
type Engine struct {
	topInvestors SymbolMatcher
	normalizer   *period.Normalizer
}

// SymbolMatcher reports membership in a fixed symbol set.
type SymbolMatcher interface {
	Contains(symbol string) bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopInvestors overrides the top-investor symbol set.
func WithTopInvestors(set SymbolMatcher) Option {
	return func(e *Engine) {
		e.topInvestors = set
	}
}

// WithNormalizer sets the normalizer used to recover unsuffixed symbols.
func WithNormalizer(n *period.Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// NewEngine creates a rating engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		topInvestors: DefaultTopInvestors,
		normalizer:   period.DefaultNormalizer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsTopInvestor reports whether symbol, with any market suffix removed,
// is in the top-investor set.
func (e *Engine) IsTopInvestor(symbol string) bool {
	return e.topInvestors.Contains(e.normalizer.Base(symbol))
}

// Rate scores symbol from its requested-window series and its trailing
// one-month daily series.
func (e *Engine) Rate(symbol string, window, month core.PriceSeries) Result {
	latest, ok := window.Last()
	if !ok {
		return Result{}
	}
	top := e.IsTopInvestor(symbol)
	if month.Empty() {
		return Result{TopInvestor: top}
	}

	closes := month.Closes()
	in := Input{
		LatestClose: latest.Close,
		MonthOpen:   closes[0],
		MonthStdDev: indicator.StdDev(closes),
		TopInvestor: top,
	}
	return Result{Score: Score(in), Available: true, TopInvestor: top}
}

// Score applies the rating heuristic: base 5, up to +3 for positive
// monthly momentum, up to -2 when the std-dev exceeds 5% of price, +1
// for top-investor symbols, then clamp to [1,10] and round to one decimal.
func Score(in Input) float64 {
	rating := BaseScore

	if perf := in.MonthPerformance(); perf > 0 {
		rating += math.Min(MaxMomentumBonus, perf/MomentumDivisor)
	}

	if in.HighVolatility() {
		rating -= math.Min(MaxVolatilityCut, in.MonthStdDev/in.LatestClose*VolatilityFactor)
	}

	if in.TopInvestor {
		rating += TopInvestorBonus
	}

	return Round(Clamp(rating))
}

// Clamp bounds a raw rating to [MinScore, MaxScore].
func Clamp(rating float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, rating))
}

// Round rounds to one decimal place, half away from zero, on the shortest
// decimal representation of the value.
func Round(rating float64) float64 {
	return indicator.Round(rating, 1)
}
