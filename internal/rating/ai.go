package rating

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
)

const aiSystemPrompt = "You are a financial analyst. Reply with a single number between 1 and 10 rating the stock as an investment, with no other text."

// aiMaxTokens leaves room for a short preamble before the number.
const aiMaxTokens = 64

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// AIRater asks a language model for a rating based on fundamentals.
// Its output is not clamped; any failure yields 0.
type AIRater struct {
	provider  llm.Provider
	maxTokens int
	logger    *zap.Logger
}

// NewAIRater creates an AIRater. A nil logger discards output.
func NewAIRater(provider llm.Provider, logger *zap.Logger) *AIRater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIRater{provider: provider, maxTokens: aiMaxTokens, logger: logger}
}

// Rate returns the model's rating for the given fundamentals, or 0 when
// the call fails or the reply carries no number.
func (r *AIRater) Rate(ctx context.Context, f core.Fundamentals) float64 {
	if r.provider == nil {
		return 0
	}

	reply, err := llm.Ask(ctx, r.provider, aiSystemPrompt, BuildAIPrompt(f), r.maxTokens)
	if err != nil {
		r.logger.Warn("ai rating failed",
			zap.String("symbol", f.Symbol),
			zap.Error(core.WrapError(core.ErrLLMFailed, err)))
		return 0
	}

	score, ok := ParseAIRating(reply)
	if !ok {
		r.logger.Warn("ai rating unparseable",
			zap.String("symbol", f.Symbol),
			zap.String("reply", reply))
		return 0
	}
	return score
}

// BuildAIPrompt renders the fundamentals the model rates on. Missing
// fields are shown as N/A.
func BuildAIPrompt(f core.Fundamentals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rate the stock %s on a scale of 1 to 10 based on these fundamentals:\n", f.Symbol)
	fmt.Fprintf(&b, "EPS: %s\n", numberOrNA(f, core.FieldTrailingEPS, f.TrailingEPS))
	fmt.Fprintf(&b, "Profit Margin: %s\n", numberOrNA(f, core.FieldProfitMargin, f.ProfitMargin))
	fmt.Fprintf(&b, "Debt to Equity: %s\n", numberOrNA(f, core.FieldDebtToEquity, f.DebtToEquity))
	fmt.Fprintf(&b, "Industry: %s\n", textOrNA(f, core.FieldIndustry, f.Industry))
	fmt.Fprintf(&b, "Market Cap: %s\n", numberOrNA(f, core.FieldMarketCap, f.MarketCap))
	fmt.Fprintf(&b, "P/E Ratio: %s\n", numberOrNA(f, core.FieldTrailingPE, f.TrailingPE))
	return b.String()
}

// ParseAIRating extracts the first numeric token from a model reply.
func ParseAIRating(reply string) (float64, bool) {
	tok := numberPattern.FindString(reply)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func numberOrNA(f core.Fundamentals, field string, v float64) string {
	if f.IsMissing(field) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func textOrNA(f core.Fundamentals, field, v string) string {
	if f.IsMissing(field) || v == "" {
		return "N/A"
	}
	return v
}
