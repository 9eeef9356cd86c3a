package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
)

type fakeProvider struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.reply}, nil
}

func TestGenerate(t *testing.T) {
	p := &fakeProvider{reply: "  AAPL looks strong.\n"}
	g := NewGenerator(p, nil, WithMaxTokens(256), WithTemperature(0.2))

	got := g.Generate(context.Background(), "How is AAPL?")
	assert.Equal(t, "AAPL looks strong.", got)
	assert.Equal(t, 256, p.last.MaxTokens)
	assert.Equal(t, 0.2, p.last.Temperature)
	assert.Contains(t, p.last.SystemPrompt, "stock market copilot")
}

func TestGenerate_SoftFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"error", &fakeProvider{err: errors.New("rate limited")}},
		{"empty", &fakeProvider{reply: "   "}},
		{"no provider", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var observed []bool
			g := NewGenerator(tt.provider, nil, WithObserver(func(ok bool) { observed = append(observed, ok) }))
			assert.Equal(t, Apology, g.Generate(context.Background(), "anything"))
			assert.Equal(t, []bool{false}, observed)
		})
	}
}

func TestAsk_ForwardsHistory(t *testing.T) {
	p := &fakeProvider{reply: "Up 3% this week."}
	g := NewGenerator(p, nil)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "What is MSFT?"},
		{Role: llm.RoleAssistant, Content: "Microsoft."},
		{Role: llm.RoleUser, Content: ""},
	}
	got := g.Ask(context.Background(), "Stock: MSFT", history, "How did it do?")
	assert.Equal(t, "Up 3% this week.", got)

	require.Len(t, p.last.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, p.last.Messages[1].Role)
	last := p.last.Messages[2]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Contains(t, last.Content, "Context Data:\nStock: MSFT")
	assert.Contains(t, last.Content, "User Question:\nHow did it do?")
}

func TestAsk_WithoutHistorySendsSinglePrompt(t *testing.T) {
	p := &fakeProvider{reply: "Flat."}
	var observed []bool
	g := NewGenerator(p, nil, WithObserver(func(ok bool) { observed = append(observed, ok) }))

	blank := []llm.Message{{Role: llm.RoleUser, Content: "  "}}
	got := g.Ask(context.Background(), "Stock: TSLA", blank, "Any news?")
	assert.Equal(t, "Flat.", got)
	require.Len(t, p.last.Messages, 1)
	assert.Equal(t, QuestionPrompt("Stock: TSLA", "Any news?"), p.last.Messages[0].Content)
	assert.Equal(t, []bool{true}, observed)
}

func TestAsk_WithoutProviderApologizes(t *testing.T) {
	g := NewGenerator(nil, nil)
	assert.Equal(t, Apology, g.Ask(context.Background(), "Stock: TSLA", nil, "Any news?"))
}

func TestBuildContext(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	var bars []core.Bar
	for i := 0; i < 8; i++ {
		c := 100 + float64(i)
		bars = append(bars, core.Bar{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000})
	}
	f := core.Fundamentals{
		Symbol:     "AAPL",
		TrailingPE: 29.5,
		Summary:    strings.Repeat("x", 600),
		Missing:    map[string]bool{core.FieldMarketCap: true},
	}

	ctx := BuildContext("AAPL", f, core.PriceSeries{Bars: bars})
	assert.Contains(t, ctx, "Stock: AAPL")
	assert.Contains(t, ctx, "Current Price: 107")
	assert.Contains(t, ctx, "PE Ratio: 29.5")
	assert.Contains(t, ctx, "Market Cap: N/A")
	assert.Contains(t, ctx, "Business Summary: "+strings.Repeat("x", 500)+"...")
	assert.NotContains(t, ctx, strings.Repeat("x", 501))
	assert.NotContains(t, ctx, "2024-03-13", "only the last five bars are included")
	assert.Contains(t, ctx, "2024-03-14 00:00 103")
}

func TestBuildContext_NoBars(t *testing.T) {
	ctx := BuildContext("XYZ", core.EmptyFundamentals("XYZ"), core.PriceSeries{})
	assert.Contains(t, ctx, "Current Price: N/A")
	assert.Contains(t, ctx, "PE Ratio: N/A")
}
