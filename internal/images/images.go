// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images is the image service: stock-photo search for generated
// sites, user uploads to object storage, and AI-generated images.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"pagesmith/internal/models"
	"pagesmith/internal/storage"
)

// MaxUploadSize is the largest accepted upload.
const MaxUploadSize = 10 << 20

// DefaultCount is how many stock photos a generated site asks for.
const DefaultCount = 6

var (
	// ErrUnavailable means the needed backend is not configured.
	ErrUnavailable = errors.New("image service unavailable")
	// ErrInvalidUpload means the upload is not an accepted image.
	ErrInvalidUpload = errors.New("invalid image upload")
)

// allowedTypes maps accepted MIME types to file extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Searcher finds stock photos.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.ImageAsset, error)
}

// Uploader stores public objects and returns their URLs.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Generator creates images from prompts.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// Service ties the image backends together. Any of them may be nil.
type Service struct {
	search    Searcher
	uploader  Uploader
	generator Generator
}

// NewService creates an image service.
func NewService(search Searcher, uploader Uploader, generator Generator) *Service {
	return &Service{search: search, uploader: uploader, generator: generator}
}

// ForSite searches photos for a generated site. The first result becomes
// the hero image and the rest feature images.
func (s *Service) ForSite(ctx context.Context, category, businessName string, count int) ([]models.ImageAsset, error) {
	if s.search == nil {
		return nil, ErrUnavailable
	}
	if count <= 0 {
		count = DefaultCount
	}

	query := strings.TrimSpace(category + " " + businessName)
	if query == "" {
		query = "small business"
	}

	assets, err := s.search.Search(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	// A business name rarely matches photos; retry on the category alone.
	if len(assets) == 0 && category != "" && businessName != "" {
		if assets, err = s.search.Search(ctx, category, count); err != nil {
			return nil, fmt.Errorf("image search: %w", err)
		}
	}

	for i := range assets {
		if i == 0 {
			assets[i].Role = models.ImageRoleHero
		} else {
			assets[i].Role = models.ImageRoleFeature
		}
		if assets[i].AltText == "" {
			assets[i].AltText = strings.TrimSpace(businessName + " " + category)
		}
	}
	slog.Debug("site images found", "query", query, "count", len(assets))
	return assets, nil
}

// Search proxies a free-text stock-photo search.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.ImageAsset, error) {
	if s.search == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 || limit > 30 {
		limit = DefaultCount
	}
	return s.search.Search(ctx, query, limit)
}

// Upload validates and stores a user image. The content type is sniffed
// from the data, not trusted from the client.
func (s *Service) Upload(ctx context.Context, owner uuid.UUID, fileName string, data []byte) (models.UploadedFile, error) {
	if s.uploader == nil {
		return models.UploadedFile{}, ErrUnavailable
	}
	if len(data) == 0 || len(data) > MaxUploadSize {
		return models.UploadedFile{}, fmt.Errorf("%w: size %d", ErrInvalidUpload, len(data))
	}

	contentType := detectType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return models.UploadedFile{}, fmt.Errorf("%w: type %s", ErrInvalidUpload, contentType)
	}

	key := storage.ObjectKey(storage.PrefixUploads, owner, "x"+ext)
	url, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.UploadedFile{}, err
	}

	slog.Info("image uploaded", "owner", owner, "key", key, "size", len(data))
	return models.UploadedFile{URL: url, FileName: fileName, FileSize: int64(len(data))}, nil
}

// Generate asks the AI provider for an image and stores it.
func (s *Service) Generate(ctx context.Context, owner uuid.UUID, prompt string) (models.ImageAsset, error) {
	if s.generator == nil || s.uploader == nil {
		return models.ImageAsset{}, ErrUnavailable
	}

	data, contentType, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return models.ImageAsset{}, fmt.Errorf("image generate: %w", err)
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		ext = ".png"
	}

	key := storage.ObjectKey(storage.PrefixGenerated, owner, "x"+ext)
	url, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.ImageAsset{}, err
	}
	return models.ImageAsset{Role: models.ImageRoleGallery, URL: url, AltText: prompt, Attribution: "AI generated"}, nil
}

// detectType sniffs the MIME type of data.
func detectType(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
