package handler

import (
	"log/slog"
	"net/http"

	"tailor/internal/httputil"
	"tailor/internal/templates"
)

// TemplateHandler serves the built-in resume template catalog
type TemplateHandler struct {
	registry *templates.Registry
	logger   *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(registry *templates.Registry, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{registry: registry, logger: logger}
}

// ListTemplates lists all available resume templates
// GET /api/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}
