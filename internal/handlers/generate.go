// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pagesmith/internal/catalog"
	"pagesmith/internal/engine"
	"pagesmith/internal/generator"
	"pagesmith/internal/middleware"
)

// Generate handles site generation requests.
type Generate struct {
	generator SiteGenerator
}

// NewGenerate creates a new Generate handler.
func NewGenerate(g SiteGenerator) *Generate {
	return &Generate{generator: g}
}

// Create runs one generation and returns the new site id with the
// remaining balance.
func (h *Generate) Create(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.UserIDFromCtx(r.Context())
	result, err := h.generator.Generate(r.Context(), userID, req)
	if err != nil {
		status, msg := generationError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("generation failed", "error", err, "user_id", userID)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// generationError maps a generator error to a status and client message.
func generationError(err error) (int, string) {
	switch {
	case errors.Is(err, generator.ErrValidation):
		return http.StatusBadRequest, clientMessage(err, generator.ErrValidation)
	case errors.Is(err, generator.ErrInsufficientCredits):
		return http.StatusPaymentRequired, "Not enough credits to generate a site."
	case errors.Is(err, generator.ErrUpstream):
		return http.StatusBadGateway, "The content service failed. Please try again."
	case errors.Is(err, catalog.ErrEmptyCatalog),
		errors.Is(err, catalog.ErrTemplateUnavailable),
		errors.Is(err, engine.ErrMalformedTemplate):
		return http.StatusUnprocessableEntity, "No usable template is available for this request."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred."
	}
}

// clientMessage strips the sentinel prefix from a wrapped validation
// error, leaving the detail.
func clientMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
