// Package insight produces language-model commentary on a stock. Every
// failure degrades to a fixed apology so callers never see an error.
package insight

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
)

// Apology is returned whenever the model yields no usable answer.
const Apology = "The AI could not generate a response. This might be due to safety filters or an API issue."

const systemPrompt = `You are an expert financial analyst and stock market copilot.
Provide a concise, professional, and data-driven answer. Use bullet points where appropriate.`

const (
	summaryLimit = 500
	recentBars   = 5
)

// Generator wraps an llm.Provider.
type Generator struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
	logger      *zap.Logger
	observe     func(ok bool)
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) { g.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithObserver registers a callback invoked after each generation with
// whether the model produced an answer.
func WithObserver(fn func(ok bool)) Option {
	return func(g *Generator) { g.observe = fn }
}

// NewGenerator creates a Generator. provider may be nil, in which case
// every call returns Apology.
func NewGenerator(provider llm.Provider, logger *zap.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{provider: provider, maxTokens: 1024, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate answers a standalone prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	return g.chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
}

// Ask answers question about a stock given its context block. history
// holds earlier turns of the conversation, oldest first; it is forwarded
// and not retained. Without history the question is a standalone prompt.
func (g *Generator) Ask(ctx context.Context, contextData string, history []llm.Message, question string) string {
	prompt := QuestionPrompt(contextData, question)

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, m)
	}
	if len(messages) == 0 {
		return g.Generate(ctx, prompt)
	}
	return g.chat(ctx, append(messages, llm.Message{Role: llm.RoleUser, Content: prompt}))
}

// QuestionPrompt grounds a user question on the stock's context block.
func QuestionPrompt(contextData, question string) string {
	return fmt.Sprintf("Context Data:\n%s\n\nUser Question:\n%s", contextData, question)
}

func (g *Generator) chat(ctx context.Context, messages []llm.Message) string {
	if g.provider == nil {
		g.logger.Debug("insight requested without provider")
		g.done(false)
		return Apology
	}

	resp, err := g.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     messages,
		MaxTokens:    g.maxTokens,
		Temperature:  g.temperature,
	})
	if err != nil {
		g.logger.Warn("insight generation failed",
			zap.String("provider", g.provider.Name()),
			zap.Error(core.WrapError(core.ErrLLMFailed, err)))
		g.done(false)
		return Apology
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("insight generation returned empty content",
			zap.String("provider", g.provider.Name()),
			zap.String("finish_reason", resp.FinishReason))
		g.done(false)
		return Apology
	}
	g.done(true)
	return text
}

func (g *Generator) done(ok bool) {
	if g.observe != nil {
		g.observe(ok)
	}
}

// BuildContext renders the facts the model is grounded on: ticker,
// current price, P/E, market cap, the business summary truncated to 500
// characters, and the last five bars.
func BuildContext(symbol string, f core.Fundamentals, series core.PriceSeries) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock: %s\n", symbol)

	if last, ok := series.Last(); ok {
		fmt.Fprintf(&b, "Current Price: %s\n", formatFloat(last.Close))
	} else {
		b.WriteString("Current Price: N/A\n")
	}

	fmt.Fprintf(&b, "PE Ratio: %s\n", fieldOrNA(f, core.FieldTrailingPE, f.TrailingPE))
	fmt.Fprintf(&b, "Market Cap: %s\n", fieldOrNA(f, core.FieldMarketCap, f.MarketCap))
	fmt.Fprintf(&b, "Business Summary: %s...\n", truncate(f.Summary, summaryLimit))

	b.WriteString("Recent History (Last 5 points):\n")
	b.WriteString("Time Open High Low Close Volume\n")
	for _, bar := range series.Tail(recentBars) {
		fmt.Fprintf(&b, "%s %s %s %s %s %d\n",
			bar.Time.Format("2006-01-02 15:04"),
			formatFloat(bar.Open), formatFloat(bar.High), formatFloat(bar.Low), formatFloat(bar.Close),
			bar.Volume)
	}
	return b.String()
}

func fieldOrNA(f core.Fundamentals, field string, v float64) string {
	if f.IsMissing(field) {
		return "N/A"
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
