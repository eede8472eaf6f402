// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/slug"
	"pagesmith/internal/store"
)

// qrSize is the edge length of generated QR codes, in pixels.
const qrSize = 256

type publishRequest struct {
	PublishType  models.PublishType `json:"publishType"`
	Slug         string             `json:"slug"`
	CustomDomain string             `json:"customDomain"`
}

type publishResponse struct {
	URL  string `json:"url"`
	Host string `json:"host"`
}

// Publish makes a site reachable under a subdomain slug or a custom
// domain. Republishing moves the site and invalidates its old host.
func (h *Sites) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := siteID(w, r)
	if !ok {
		return
	}
	var in publishRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var slugVal, domainVal *string
	switch in.PublishType {
	case models.PublishSubdomain:
		s := strings.ToLower(strings.TrimSpace(in.Slug))
		if err := slug.Validate(s); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slugVal = &s
	case models.PublishCustom:
		d, err := slug.NormalizeDomain(in.CustomDomain, h.baseDomain)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		domainVal = &d
	default:
		writeError(w, http.StatusBadRequest, `publishType must be "subdomain" or "custom"`)
		return
	}

	owner := middleware.UserIDFromCtx(r.Context())
	before, err := h.sites.FindForOwner(id, owner)
	if err != nil {
		slog.Error("load site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if before == nil {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}

	site, err := h.sites.Publish(id, owner, slugVal, domainVal)
	switch {
	case errors.Is(err, store.ErrDuplicateSlug):
		writeError(w, http.StatusBadRequest, "This subdomain is already taken.")
		return
	case errors.Is(err, store.ErrDuplicateDomain):
		writeError(w, http.StatusBadRequest, "This domain is already in use.")
		return
	case err != nil:
		slog.Error("publish site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	case site == nil:
		writeError(w, http.StatusNotFound, "site not found")
		return
	}

	host := site.Host(h.baseDomain)
	if old := before.Host(h.baseDomain); old != "" && old != host {
		h.takeDown(r.Context(), old)
	}
	if h.publisher != nil {
		if _, err := h.publisher.PutSite(r.Context(), host, site.HTMLContent); err != nil {
			slog.Warn("published copy upload failed", "error", err, "host", host)
		}
	}
	if h.pages != nil {
		h.pages.Invalidate(r.Context(), host)
	}

	slog.Info("site published", "site_id", id, "host", host)
	writeJSON(w, http.StatusOK, publishResponse{URL: "https://" + host, Host: host})
}

// Unpublish takes a site offline. The slug or domain is released.
func (h *Sites) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, ok := siteID(w, r)
	if !ok {
		return
	}
	before, err := h.sites.Unpublish(id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		slog.Error("unpublish site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if before == nil {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	h.takeDown(r.Context(), before.Host(h.baseDomain))
	slog.Info("site unpublished", "site_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// QRCode returns a PNG QR code for the published site's URL.
func (h *Sites) QRCode(w http.ResponseWriter, r *http.Request) {
	site, ok := h.load(w, r)
	if !ok {
		return
	}
	host := site.Host(h.baseDomain)
	if host == "" {
		writeError(w, http.StatusBadRequest, "The site is not published.")
		return
	}

	png, err := qrcode.Encode("https://"+host, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("qr code encode failed", "error", err, "site_id", site.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}
