package collector

import (
	"context"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

// FullHistory is the range token a source uses when asked for an empty
// period.
const FullHistory = "max"

// Source is a market-data provider.
//
// An empty period passes through the resolver unchanged and asks for the
// provider's whole history. FetchBars returns an empty series with a nil error when the provider has
// no data for the symbol and window; errors are reserved for transport
// faults. FetchInfo returns whatever fundamentals the provider has and
// lists absent fields in Fundamentals.Missing.
type Source interface {
	Name() string
	FetchBars(ctx context.Context, symbol, period, interval string) (core.PriceSeries, error)
	FetchInfo(ctx context.Context, symbol string) (core.Fundamentals, error)
}
