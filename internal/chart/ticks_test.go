package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

func barsEvery(start time.Time, step time.Duration, n int) []core.Bar {
	bars := make([]core.Bar, n)
	for i := range bars {
		bars[i] = core.Bar{Time: start.Add(time.Duration(i) * step), Close: 100 + float64(i)}
	}
	return bars
}

func TestTicks_OneDayHourly(t *testing.T) {
	start := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)
	bars := barsEvery(start, 30*time.Minute, 13) // 13:30 .. 19:30

	ticks := Ticks(bars, "1d", time.UTC)
	require.Len(t, ticks, 7)
	assert.Equal(t, "13:30", ticks[0].Label)
	assert.Equal(t, "14:00", ticks[1].Label)
	assert.Equal(t, "19:00", ticks[6].Label)
}

func TestTicks_FiveDayDaily(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	bars := barsEvery(start, 6*time.Hour, 20) // five days of four bars

	for _, period := range []string{"5d", "1wk"} {
		ticks := Ticks(bars, period, time.UTC)
		require.Len(t, ticks, 5, period)
		assert.Equal(t, "Mar 11", ticks[0].Label)
		assert.Equal(t, "Mar 15", ticks[4].Label)
	}
}

func TestTicks_MonthWeekly(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) // Friday
	bars := barsEvery(start, 24*time.Hour, 31)

	ticks := Ticks(bars, "1mo", time.UTC)
	// Mar 1 (week 9) plus Mondays Mar 4, 11, 18, 25
	require.Len(t, ticks, 5)
	assert.Equal(t, "Mar 01", ticks[0].Label)
	assert.Equal(t, "Mar 04", ticks[1].Label)
	assert.Equal(t, "Mar 25", ticks[4].Label)
}

func TestTicks_OtherPeriods(t *testing.T) {
	bars := barsEvery(time.Now(), time.Hour, 5)
	assert.Nil(t, Ticks(bars, "3mo", time.UTC))
	assert.Nil(t, Ticks(bars, "", time.UTC))
}

func TestTicks_Pure(t *testing.T) {
	bars := barsEvery(time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC), 30*time.Minute, 10)
	assert.Equal(t, Ticks(bars, "1d", nil), Ticks(bars, "1d", nil))
}
