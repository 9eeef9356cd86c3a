// internal/api/handler/web/handler.go
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/core"
	"github.com/cosmocloud/stockcopilot/internal/period"
)

//go:embed templates/*
var templateFS embed.FS

// pages lists the page templates, each parsed together with layout.html.
var pages = []string{"index.html", "result.html", "info.html"}

// Service defines the interface needed from app.App.
type Service interface {
	Normalize(raw string) string
	Lookup(ctx context.Context, symbol string, w period.Window) (*app.Report, error)
	Info(ctx context.Context, symbol string) core.Fundamentals
	IsTopInvestor(symbol string) bool
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds one template set per page: layout.html plus the page
	pageTemplates map[string]*template.Template
	svc           Service
	logger        *zap.Logger
}

// NewHandler creates a new web handler with templates loaded from the given directory.
// If templatesDir is empty, it falls back to embedded templates.
func NewHandler(svc Service, templatesDir string, logger *zap.Logger) (*Handler, error) {
	if templatesDir != "" {
		return NewHandlerWithFS(svc, os.DirFS(templatesDir), logger)
	}
	return NewHandlerWithFS(svc, TemplateFS(), logger)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
// This is useful for testing or custom template sources.
func NewHandlerWithFS(svc Service, fsys fs.FS, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageTemplates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}
	return &Handler{pageTemplates: pageTemplates, svc: svc, logger: logger}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("template execution failed", zap.String("page", page), zap.Error(err))
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// This should never happen with valid embed directive
		return templateFS
	}
	return subFS
}
