package chart

import (
	"fmt"
	"time"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

// Tick is an x-axis label anchored at a bar time.
type Tick struct {
	Time  time.Time
	Label string
}

// Tick layouts.
const (
	HourLayout = "15:04"
	DayLayout  = "Jan 02"
)

// Ticks returns the x-axis ticks for a series plotted over period:
// hourly for 1d, daily for 5d and 1wk, weekly for 1mo. Other periods
// return nil and the renderer falls back to its default axis. Each tick
// sits on the first bar of its bucket, in loc.
func Ticks(bars []core.Bar, period string, loc *time.Location) []Tick {
	if loc == nil {
		loc = time.UTC
	}

	var bucket func(time.Time) string
	var layout string
	switch period {
	case "1d":
		bucket = func(t time.Time) string { return t.Format("2006-01-02 15") }
		layout = HourLayout
	case "5d", "1wk":
		bucket = func(t time.Time) string { return t.Format(time.DateOnly) }
		layout = DayLayout
	case "1mo":
		bucket = func(t time.Time) string {
			y, w := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", y, w)
		}
		layout = DayLayout
	default:
		return nil
	}

	var ticks []Tick
	last := ""
	for _, b := range bars {
		t := b.Time.In(loc)
		if k := bucket(t); k != last {
			ticks = append(ticks, Tick{Time: b.Time, Label: t.Format(layout)})
			last = k
		}
	}
	return ticks
}
