package period

import (
	"sort"
	"strings"
)

// SymbolSet is an immutable set of ticker symbols.
type SymbolSet struct {
	members map[string]struct{}
}

// NewSymbolSet builds a set from the given symbols, upper-cased.
func NewSymbolSet(symbols ...string) SymbolSet {
	m := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		m[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return SymbolSet{members: m}
}

// Contains reports set membership. Matching is exact.
func (s SymbolSet) Contains(symbol string) bool {
	_, ok := s.members[symbol]
	return ok
}

// Len returns the number of members.
func (s SymbolSet) Len() int {
	return len(s.members)
}

// Symbols returns the members in sorted order.
func (s SymbolSet) Symbols() []string {
	out := make([]string, 0, len(s.members))
	for m := range s.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// NSESuffix is the Yahoo suffix for National Stock Exchange of India listings.
const NSESuffix = ".NS"

// NSESymbols are the bare tickers that need NSESuffix before any data-source call.
var NSESymbols = NewSymbolSet("RELIANCE", "TCS", "INFY")

// PopularStocks maps company names to tickers for name-based search.
var PopularStocks = map[string]string{
	"Apple":               "AAPL",
	"Google":              "GOOGL",
	"Microsoft":           "MSFT",
	"Amazon":              "AMZN",
	"Tesla":               "TSLA",
	"Meta":                "META",
	"NVIDIA":              "NVDA",
	"Netflix":             "NFLX",
	"Reliance Industries": "RELIANCE.NS",
	"TCS":                 "TCS.NS",
	"Infosys":             "INFY.NS",
	"HDFC Bank":           "HDFCBANK.NS",
	"Tata Motors":         "TATAMOTORS.NS",
	"Zomato":              "ZOMATO.NS",
	"Paytm":               "PAYTM.NS",
}

// Normalizer turns user-entered symbols into data-source tickers.
type Normalizer struct {
	suffix  string
	symbols SymbolSet
	names   map[string]string
}

// NewNormalizer creates a normalizer appending suffix to members of symbols.
// names maps lower-cased company names to tickers and may be nil.
func NewNormalizer(suffix string, symbols SymbolSet, names map[string]string) *Normalizer {
	lowered := make(map[string]string, len(names))
	for name, ticker := range names {
		lowered[strings.ToLower(name)] = ticker
	}
	return &Normalizer{suffix: suffix, symbols: symbols, names: lowered}
}

// Normalize trims and upper-cases raw, resolves popular company names,
// and appends the market suffix to configured symbols. Already-suffixed
// symbols are not members of the set, so applying it twice is a no-op.
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if ticker, ok := n.names[strings.ToLower(trimmed)]; ok {
		trimmed = ticker
	}
	symbol := strings.ToUpper(trimmed)
	if n.symbols.Contains(symbol) {
		symbol += n.suffix
	}
	return symbol
}

// Base strips the market suffix from symbols that received it.
func (n *Normalizer) Base(symbol string) string {
	if base, ok := strings.CutSuffix(symbol, n.suffix); ok && n.symbols.Contains(base) {
		return base
	}
	return symbol
}

// DefaultNormalizer suffixes NSESymbols and resolves PopularStocks names.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(NSESuffix, NSESymbols, PopularStocks)
}
