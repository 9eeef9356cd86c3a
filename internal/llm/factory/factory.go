// internal/llm/factory/factory.go
package factory

import (
	"context"
	"fmt"

	"github.com/cosmocloud/stockcopilot/internal/config"
	"github.com/cosmocloud/stockcopilot/internal/llm"
	"github.com/cosmocloud/stockcopilot/internal/llm/claude"
	"github.com/cosmocloud/stockcopilot/internal/llm/gemini"
	"github.com/cosmocloud/stockcopilot/internal/llm/ollama"
	"github.com/cosmocloud/stockcopilot/internal/llm/openai"
)

// New creates an LLM provider based on configuration.
func New(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Ollama.Timeout)
	case "gemini":
		return gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
