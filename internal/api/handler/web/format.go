// internal/api/handler/web/format.go
package web

import (
	"math"
	"strconv"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

// notAvailable stands in for fields the provider did not return.
const notAvailable = "N/A"

func number(f core.Fundamentals, field string, v float64, format func(float64) string) string {
	if f.IsMissing(field) {
		return notAvailable
	}
	return format(v)
}

func text(f core.Fundamentals, field, v string) string {
	if f.IsMissing(field) || v == "" {
		return notAvailable
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func signed(v float64) string {
	s := formatNumber(v)
	if v > 0 {
		return "+" + s
	}
	return s
}

// formatPercent renders a ratio such as 0.0052 as "0.52%".
func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}

// formatMarketCap abbreviates to thousands, millions, billions or trillions.
func formatMarketCap(v float64) string {
	units := []struct {
		size   float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
	for _, u := range units {
		if math.Abs(v) >= u.size {
			return strconv.FormatFloat(v/u.size, 'f', 2, 64) + u.suffix
		}
	}
	return formatNumber(v)
}
