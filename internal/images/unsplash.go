// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pagesmith/internal/models"
)

const unsplashBaseURL = "https://api.unsplash.com"

// Unsplash searches the Unsplash photo API.
type Unsplash struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

// NewUnsplash creates a client. Returns nil when accessKey is empty so
// callers can treat stock search as unavailable.
func NewUnsplash(accessKey, baseURL string) *Unsplash {
	if accessKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = unsplashBaseURL
	}
	return &Unsplash{
		accessKey: accessKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns up to limit landscape photos matching query.
func (u *Unsplash) Search(ctx context.Context, query string, limit int) ([]models.ImageAsset, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("orientation", "landscape")
	q.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("unsplash read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result unsplashSearch
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unsplash unmarshal: %w", err)
	}

	assets := make([]models.ImageAsset, 0, len(result.Results))
	for _, p := range result.Results {
		if p.URLs.Regular == "" {
			continue
		}
		alt := p.AltDescription
		if alt == "" {
			alt = p.Description
		}
		assets = append(assets, models.ImageAsset{
			Role:        models.ImageRoleGallery,
			URL:         p.URLs.Regular,
			AltText:     alt,
			Attribution: fmt.Sprintf("Photo by %s on Unsplash", p.User.Name),
		})
	}
	return assets, nil
}

type unsplashSearch struct {
	Results []unsplashPhoto `json:"results"`
}

type unsplashPhoto struct {
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}
