package period

// Coarse, user-facing period tokens.
const (
	OneDay   = "1d"
	FiveDays = "5d"
	OneWeek  = "1wk"
	OneMonth = "1mo"
)

// Sampling intervals passed to the data source.
const (
	IntervalOneMinute     = "1m"
	IntervalThirtyMinutes = "30m"
	IntervalOneHour       = "1h"
	IntervalOneDay        = "1d"
)

// Window is a requested period resolved to the concrete period/interval
// pair handed to the market data source.
type Window struct {
	Requested string `json:"requested"`
	Period    string `json:"period"`
	Interval  string `json:"interval"`
}

// DefaultWindow is used for the first lookup from the search form, before
// the user has picked a period.
var DefaultWindow = Window{Requested: OneDay, Period: OneDay, Interval: IntervalOneMinute}

// MonthWindow is the fixed trailing window the rating is computed over.
var MonthWindow = Window{Requested: OneMonth, Period: OneMonth, Interval: IntervalOneDay}

// Resolve maps a coarse period token to a concrete window:
//
//	1d  -> 1d / 30m
//	1wk -> 5d / 1h
//	1mo -> 1mo / 1d
//
// Any other token, including the empty string, passes through unchanged with
// a 1d interval. Unknown tokens are not rejected; the data source decides
// whether it can serve them.
func Resolve(requested string) Window {
	switch requested {
	case OneDay:
		return Window{Requested: requested, Period: OneDay, Interval: IntervalThirtyMinutes}
	case OneWeek:
		return Window{Requested: requested, Period: FiveDays, Interval: IntervalOneHour}
	case OneMonth:
		return Window{Requested: requested, Period: OneMonth, Interval: IntervalOneDay}
	default:
		return Window{Requested: requested, Period: requested, Interval: IntervalOneDay}
	}
}

// Selectable lists the period tokens offered on the result page.
func Selectable() []string {
	return []string{OneDay, OneWeek, OneMonth}
}
