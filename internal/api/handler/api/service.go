// internal/api/handler/api/service.go
package api

import (
	"context"

	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
)

// Service defines the interface needed from app.App.
type Service interface {
	Normalize(raw string) string
	LookupPeriod(ctx context.Context, symbol, requested string) (*app.Report, error)
	Chart(ctx context.Context, symbol, requested string) ([]byte, error)
	Info(ctx context.Context, symbol string) core.Fundamentals
	Ask(ctx context.Context, symbol, requested, question string, history []llm.Message) (string, error)
	AIRating(ctx context.Context, symbol string) float64
	LLMEnabled() bool
}
