// internal/api/handler/api/stock.go
package api

import (
	"errors"
	"net/http"

	"github.com/cosmocloud/stockcopilot/internal/api/response"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/period"
)

// StockHandler serves ratings, fundamentals and charts.
type StockHandler struct {
	svc Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(svc Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// symbol normalizes the {symbol} path value.
func (h *StockHandler) symbol(r *http.Request) (string, error) {
	s := h.svc.Normalize(r.PathValue("symbol"))
	if s == "" {
		return "", core.WrapError(core.ErrInvalidSymbol, errors.New("symbol is required"))
	}
	return s, nil
}

// Rating handles GET /api/v1/rating/{symbol}
func (h *StockHandler) Rating(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbol(r)
	if err != nil {
		response.Fail(w, err)
		return
	}

	report, err := h.svc.LookupPeriod(r.Context(), symbol, r.URL.Query().Get("period"))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"report":    report,
		"has_chart": report.HasChart(),
	})
}

// Resolve handles GET /api/v1/resolve
func (h *StockHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, period.Resolve(r.URL.Query().Get("period")))
}

// Info handles GET /api/v1/info/{symbol}
func (h *StockHandler) Info(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbol(r)
	if err != nil {
		response.Fail(w, err)
		return
	}

	f := h.svc.Info(r.Context(), symbol)
	response.JSON(w, http.StatusOK, map[string]any{
		"fundamentals": f,
		"partial":      f.Partial(),
	})
}

// Chart handles GET /api/v1/chart/{symbol}
func (h *StockHandler) Chart(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbol(r)
	if err != nil {
		response.Fail(w, err)
		return
	}

	png, err := h.svc.Chart(r.Context(), symbol, r.URL.Query().Get("period"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.PNG(w, png)
}

// AIRating handles GET /api/v1/ai-rating/{symbol}
func (h *StockHandler) AIRating(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbol(r)
	if err != nil {
		response.Fail(w, err)
		return
	}

	if !h.svc.LLMEnabled() {
		response.Fail(w, core.ErrLLMUnavailable)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"rating": h.svc.AIRating(r.Context(), symbol),
	})
}
