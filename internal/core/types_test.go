package core

import (
	"testing"
	"time"
)

func TestDetectMarket(t *testing.T) {
	tests := []struct {
		symbol string
		want   Market
	}{
		{"AAPL", MarketUS},
		{"RELIANCE.NS", MarketIN},
		{"tcs.bo", MarketIN},
		{"0700.HK", MarketHK},
	}
	for _, tt := range tests {
		if got := DetectMarket(tt.symbol); got != tt.want {
			t.Errorf("DetectMarket(%s) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestPriceSeries_Helpers(t *testing.T) {
	now := time.Now()
	s := PriceSeries{
		Symbol: "AAPL",
		Bars: []Bar{
			{Time: now.Add(-2 * time.Hour), Close: 10},
			{Time: now.Add(-time.Hour), Close: 11},
			{Time: now, Close: 12},
		},
	}

	if s.Empty() {
		t.Fatal("expected non-empty series")
	}

	closes := s.Closes()
	if len(closes) != 3 || closes[0] != 10 || closes[2] != 12 {
		t.Errorf("unexpected closes: %v", closes)
	}

	last, ok := s.Last()
	if !ok || last.Close != 12 {
		t.Errorf("Last() = %v, %v", last, ok)
	}

	if tail := s.Tail(2); len(tail) != 2 || tail[0].Close != 11 {
		t.Errorf("unexpected tail: %v", tail)
	}
	if tail := s.Tail(10); len(tail) != 3 {
		t.Errorf("expected whole series, got %d bars", len(tail))
	}
}

func TestPriceSeries_EmptyLast(t *testing.T) {
	var s PriceSeries
	if !s.Empty() {
		t.Error("zero series should be empty")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last on empty series should report !ok")
	}
}

func TestFundamentals_Missing(t *testing.T) {
	f := EmptyFundamentals("MSFT")
	for _, name := range FundamentalFields {
		if !f.IsMissing(name) {
			t.Errorf("expected %s to be missing", name)
		}
	}
	if f.DisplayName() != "MSFT" {
		t.Errorf("expected symbol fallback, got %s", f.DisplayName())
	}

	var g Fundamentals
	if g.Partial() {
		t.Error("zero snapshot has nothing marked missing")
	}
	g.MarkMissing(FieldBeta)
	if !g.Partial() || !g.IsMissing(FieldBeta) {
		t.Error("expected beta marked missing")
	}
}
