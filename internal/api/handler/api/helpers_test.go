// internal/api/handler/api/helpers_test.go
package api

import (
	"context"
	"testing"
	"time"

	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
)

// stubSource serves fixed closes for every symbol in bars.
type stubSource struct {
	bars map[string][]float64
	info map[string]core.Fundamentals
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchBars(ctx context.Context, symbol, p, interval string) (core.PriceSeries, error) {
	series := core.PriceSeries{Symbol: symbol, Period: p, Interval: interval}
	start := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	for i, c := range s.bars[symbol] {
		series.Bars = append(series.Bars, core.Bar{
			Time: start.Add(time.Duration(i) * time.Hour), Open: c, High: c, Low: c, Close: c, Volume: 100,
		})
	}
	return series, nil
}

func (s *stubSource) FetchInfo(ctx context.Context, symbol string) (core.Fundamentals, error) {
	if f, ok := s.info[symbol]; ok {
		return f, nil
	}
	return core.EmptyFundamentals(symbol), nil
}

type stubRenderer struct{}

func (stubRenderer) Render(series core.PriceSeries, p string) ([]byte, error) {
	if len(series.Bars) < 2 {
		return nil, core.ErrChartFailed
	}
	return []byte("\x89PNG"), nil
}

type stubLLM struct{ reply string }

func (s stubLLM) Name() string { return "stub" }

func (s stubLLM) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Content: s.reply}, nil
}

func newTestService(t *testing.T, provider llm.Provider) *app.App {
	t.Helper()
	src := &stubSource{
		bars: map[string][]float64{
			"AAPL":        {100, 110, 120, 130, 140, 150},
			"RELIANCE.NS": {2900, 2950},
			"ONE":         {10},
		},
		info: map[string]core.Fundamentals{
			"AAPL": {Symbol: "AAPL", LongName: "Apple Inc.", TrailingPE: 30},
		},
	}
	a, err := app.New(app.Deps{Source: src, Renderer: stubRenderer{}, LLM: provider})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	return a
}
