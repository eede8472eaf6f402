package handlers

import (
	"net/http"

	"pagesmith/internal/models"
)

// Templates lists the template catalog.
type Templates struct {
	catalog TemplateLister
}

// NewTemplates creates a new Templates handler.
func NewTemplates(catalog TemplateLister) *Templates {
	return &Templates{catalog: catalog}
}

// List returns every catalog entry.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.Templates()
	if list == nil {
		list = []models.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}
