// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"pagesmith/internal/images"
	"pagesmith/internal/middleware"
)

// Search result limits.
const (
	defaultSearchLimit = 12
	maxSearchLimit     = 30
)

// Images groups the image endpoints used by the editor.
type Images struct {
	images  ImageService
	checker PromptChecker // nil skips moderation of generation prompts
}

// NewImages creates a new Images handler group. checker may be nil.
func NewImages(svc ImageService, checker PromptChecker) *Images {
	return &Images{images: svc, checker: checker}
}

// Upload stores an image sent as the multipart field "file".
func (h *Images) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MB limit.")
			return
		}
		writeError(w, http.StatusBadRequest, "A file is required in the \"file\" field.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, images.MaxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file.")
		return
	}
	if len(data) > images.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MB limit.")
		return
	}

	owner := middleware.UserIDFromCtx(r.Context())
	uploaded, err := h.images.Upload(r.Context(), owner, header.Filename, data)
	if err != nil {
		status, msg := imageError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("image upload failed", "error", err, "user_id", owner)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, uploaded)
}

// Search queries the stock photo provider.
func (h *Images) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required.")
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results, err := h.images.Search(r.Context(), q, limit)
	if err != nil {
		status, msg := imageError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("image search failed", "error", err, "query", q)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type imagePrompt struct {
	Prompt string `json:"prompt"`
}

// Generate creates an image from a prompt with the configured provider.
func (h *Images) Generate(w http.ResponseWriter, r *http.Request) {
	var in imagePrompt
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Prompt = strings.TrimSpace(in.Prompt)
	if in.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required.")
		return
	}

	if h.checker != nil {
		result, err := h.checker.CheckPrompt(r.Context(), in.Prompt)
		if err != nil {
			slog.Warn("moderation check failed, allowing prompt", "error", err)
		} else if result != nil && !result.Safe {
			writeError(w, http.StatusBadRequest, "prompt flagged for "+strings.Join(result.Categories, ", "))
			return
		}
	}

	owner := middleware.UserIDFromCtx(r.Context())
	asset, err := h.images.Generate(r.Context(), owner, in.Prompt)
	if err != nil {
		status, msg := imageError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("image generation failed", "error", err, "user_id", owner)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// imageError maps an image service error to a status and client message.
func imageError(err error) (int, string) {
	switch {
	case errors.Is(err, images.ErrInvalidUpload):
		return http.StatusBadRequest, clientMessage(err, images.ErrInvalidUpload)
	case errors.Is(err, images.ErrUnavailable):
		return http.StatusServiceUnavailable, "Image service is not configured."
	default:
		return http.StatusBadGateway, "The image provider failed. Please try again."
	}
}
