// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"pagesmith/internal/engine"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
)

// Sites groups the owner-facing site endpoints: listing, preview and the
// in-place editor.
type Sites struct {
	sites      SiteRepo
	publisher  SitePublisher // nil when object storage is not configured
	pages      PageCache     // nil disables invalidation
	baseDomain string
}

// NewSites creates a new Sites handler group. publisher and pages may be nil.
func NewSites(sites SiteRepo, publisher SitePublisher, pages PageCache, baseDomain string) *Sites {
	return &Sites{
		sites:      sites,
		publisher:  publisher,
		pages:      pages,
		baseDomain: baseDomain,
	}
}

// siteSummary is the list view of a site.
type siteSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	TemplateID  string    `json:"templateId"`
	IsPublished bool      `json:"isPublished"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

func (h *Sites) summary(s *models.GeneratedSite) siteSummary {
	out := siteSummary{
		ID:          s.ID,
		Title:       s.Title,
		TemplateID:  s.TemplateID,
		IsPublished: s.IsPublished,
		CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if host := s.Host(h.baseDomain); host != "" {
		out.URL = "https://" + host
	}
	return out
}

// List returns the signed-in user's sites, newest first.
func (h *Sites) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.sites.ListByOwner(middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		slog.Error("list sites failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	out := make([]siteSummary, 0, len(sites))
	for i := range sites {
		out = append(out, h.summary(&sites[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one site including its document.
func (h *Sites) Get(w http.ResponseWriter, r *http.Request) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		siteSummary
		HTML string `json:"html"`
	}{h.summary(site), site.HTMLContent})
}

// Delete removes a site and takes down its published copy.
func (h *Sites) Delete(w http.ResponseWriter, r *http.Request) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}
	owner := middleware.UserIDFromCtx(r.Context())
	deleted, err := h.sites.Delete(site.ID, owner)
	if err != nil {
		slog.Error("delete site failed", "error", err, "site_id", site.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	h.takeDown(r.Context(), site.Host(h.baseDomain))
	slog.Info("site deleted", "site_id", site.ID, "user_id", owner)
	w.WriteHeader(http.StatusNoContent)
}

// Preview serves the raw document in a sandbox so generated scripts
// cannot act with the application's origin.
func (h *Sites) Preview(w http.ResponseWriter, r *http.Request) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(site.HTMLContent))
}

// editorState is returned by Editable and by every successful edit.
type editorState struct {
	Elements []engine.EditableElement `json:"elements"`
	Colors   []engine.NamedColor      `json:"colors"`
	HTML     string                   `json:"html"`
}

// Editable annotates the document for editing and returns its editable
// elements and palette. The annotated document is saved so later edits
// can address elements by id.
func (h *Sites) Editable(w http.ResponseWriter, r *http.Request) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}
	state, ok := h.annotate(w, r, site, site.HTMLContent)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type textEdit struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
}

// EditText replaces the text of one element.
func (h *Sites) EditText(w http.ResponseWriter, r *http.Request) {
	var in textEdit
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTextEdit(in.Selector, in.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.edit(w, r, func(doc string) (string, error) {
		return engine.ApplyTextEdit(doc, in.Selector, in.Text)
	})
}

type colorEdit struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EditColor replaces one palette color throughout the document.
func (h *Sites) EditColor(w http.ResponseWriter, r *http.Request) {
	var in colorEdit
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "Color name is required.")
		return
	}
	h.edit(w, r, func(doc string) (string, error) {
		return engine.ApplyColorEdit(doc, in.Name, strings.TrimSpace(in.Value))
	})
}

type imageEdit struct {
	Selector string `json:"selector"`
	URL      string `json:"url"`
}

// EditImage points one <img> at a new URL.
func (h *Sites) EditImage(w http.ResponseWriter, r *http.Request) {
	var in imageEdit
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.URL = strings.TrimSpace(in.URL)
	if strings.TrimSpace(in.Selector) == "" {
		writeError(w, http.StatusBadRequest, "Selector is required.")
		return
	}
	if msg := validateImageURL(in.URL); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.edit(w, r, func(doc string) (string, error) {
		return engine.ApplyImageEdit(doc, in.Selector, in.URL)
	})
}

// edit applies fn to the stored document and saves the result. A failed
// edit leaves the stored document untouched.
func (h *Sites) edit(w http.ResponseWriter, r *http.Request, fn func(string) (string, error)) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}

	doc, err := fn(site.HTMLContent)
	if err != nil {
		if isEditError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("apply edit failed", "error", err, "site_id", site.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	state, ok := h.annotate(w, r, site, doc)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// annotate extracts the editor state from doc and persists the annotated
// document when it differs from the stored one.
func (h *Sites) annotate(w http.ResponseWriter, r *http.Request, site *models.GeneratedSite, doc string) (*editorState, bool) {
	elements, annotated, err := engine.ExtractEditable(doc)
	if err != nil {
		slog.Error("extract editable failed", "error", err, "site_id", site.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return nil, false
	}

	if annotated != site.HTMLContent {
		updated, err := h.sites.UpdateHTML(site.ID, site.OwnerID, annotated)
		if err != nil {
			slog.Error("save site failed", "error", err, "site_id", site.ID)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return nil, false
		}
		if !updated {
			writeError(w, http.StatusNotFound, "site not found")
			return nil, false
		}
		h.refresh(r.Context(), site.Host(h.baseDomain), annotated)
	}

	return &editorState{
		Elements: elements,
		Colors:   engine.ExtractColorPalette(annotated),
		HTML:     annotated,
	}, true
}

// load fetches the {id} site owned by the signed-in user, writing a 404
// when it does not exist.
func (h *Sites) load(w http.ResponseWriter, r *http.Request) (*models.GeneratedSite, bool) {
	id, ok := siteID(w, r)
	if !ok {
		return nil, false
	}
	site, err := h.sites.FindForOwner(id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		slog.Error("load site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return nil, false
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "site not found")
		return nil, false
	}
	return site, true
}

// refresh replaces the published copy of an edited site.
func (h *Sites) refresh(ctx context.Context, host, doc string) {
	if host == "" {
		return
	}
	if h.publisher != nil {
		if _, err := h.publisher.PutSite(ctx, host, doc); err != nil {
			slog.Warn("published copy update failed", "error", err, "host", host)
		}
	}
	if h.pages != nil {
		h.pages.Invalidate(ctx, host)
	}
}

// takeDown removes the published copy of a site.
func (h *Sites) takeDown(ctx context.Context, host string) {
	if host == "" {
		return
	}
	if h.publisher != nil {
		if err := h.publisher.DeleteSite(ctx, host); err != nil {
			slog.Warn("published copy delete failed", "error", err, "host", host)
		}
	}
	if h.pages != nil {
		h.pages.Invalidate(ctx, host)
	}
}

func isEditError(err error) bool {
	return errors.Is(err, engine.ErrSelectorNotFound) ||
		errors.Is(err, engine.ErrColorNotFound) ||
		errors.Is(err, engine.ErrInvalidColor)
}
