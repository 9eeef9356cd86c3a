// internal/api/handler/api/insight.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cosmocloud/stockcopilot/internal/api/response"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/llm"
	"github.com/cosmocloud/stockcopilot/internal/period"
)

// InsightHandler answers copilot questions about a stock.
type InsightHandler struct {
	svc      Service
	validate *validator.Validate
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(svc Service) *InsightHandler {
	return &InsightHandler{svc: svc, validate: validator.New()}
}

// HistoryMessage is one earlier turn of the conversation.
type HistoryMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// InsightRequest is the request body for POST /api/v1/insight.
type InsightRequest struct {
	Symbol   string           `json:"symbol" validate:"required,max=32"`
	Period   string           `json:"period,omitempty" validate:"omitempty,max=8"`
	Question string           `json:"question" validate:"required,max=2000"`
	History  []HistoryMessage `json:"history,omitempty" validate:"max=50,dive"`
}

// Validate checks the request against its validation tags.
func (h *InsightHandler) Validate(req *InsightRequest) error {
	if err := h.validate.Struct(req); err != nil {
		return core.WrapError(core.ErrInvalidRequest, err)
	}
	return nil
}

// Ask handles POST /api/v1/insight
func (h *InsightHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidRequest, err))
		return
	}
	if err := h.Validate(&req); err != nil {
		response.Fail(w, err)
		return
	}

	symbol := h.svc.Normalize(req.Symbol)
	requested := req.Period
	if requested == "" {
		requested = period.OneMonth
	}

	history := make([]llm.Message, len(req.History))
	for i, m := range req.History {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	answer, err := h.svc.Ask(r.Context(), symbol, requested, req.Question, history)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":      symbol,
		"period":      requested,
		"answer":      answer,
		"llm_enabled": h.svc.LLMEnabled(),
	})
}
