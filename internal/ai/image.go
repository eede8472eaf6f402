// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoImageSupport means the active provider has no image model.
var ErrNoImageSupport = errors.New("ai: provider does not support image generation")

// ImageGenerator is implemented by providers with an image model. Claude
// and Mistral are text-only.
type ImageGenerator interface {
	// GenerateImage returns the image bytes and their MIME type.
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// GenerateImage creates a site image with the active provider. An empty
// result is an error so callers never store a zero-byte file.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, "", fmt.Errorf("ai: image prompt is empty")
	}

	p, err := r.Active()
	if err != nil {
		return nil, "", err
	}
	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNoImageSupport, p.Name())
	}

	start := time.Now()
	data, contentType, err := ig.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("%s image: %w", p.Name(), err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s image: empty response", p.Name())
	}

	slog.Debug("image generated",
		"provider", p.Name(),
		"bytes", len(data),
		"content_type", contentType,
		"duration", time.Since(start),
	)
	return data, contentType, nil
}

// SupportsImageGeneration reports whether the active provider can
// generate images.
func (r *Registry) SupportsImageGeneration() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	_, ok := p.(ImageGenerator)
	return ok
}
