// internal/llm/gemini/gemini.go
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/cosmocloud/stockcopilot/internal/llm"
)

const DefaultModel = "gemini-2.5-flash"

// Provider implements the LLM interface for Google Gemini.
type Provider struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini provider backed by the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Provider{client: client, model: model}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// shortReplyTokens is the output budget at or below which thinking is
// switched off. Thinking tokens count against MaxOutputTokens, and a
// small budget would be spent before any answer text is produced.
const shortReplyTokens = 256

// Chat sends a chat request to Gemini.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, toContents(req.Messages), buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	out := &llm.ChatResponse{Content: resp.Text()}
	if resp.UsageMetadata != nil {
		out.Usage = llm.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	return out, nil
}

func buildConfig(req llm.ChatRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
		if req.MaxTokens <= shortReplyTokens {
			cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
		}
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

// toContents maps chat history onto Gemini turns; assistant turns
// become model turns.
func toContents(messages []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}
