// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishType selects where a published site is served from.
type PublishType string

const (
	PublishSubdomain PublishType = "subdomain"
	PublishCustom    PublishType = "custom"
)

// GeneratedSite is the persisted output of one generation request.
// HTMLContent is always a complete, self-contained document and every
// write replaces it whole.
type GeneratedSite struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Title        string     `json:"title"`
	HTMLContent  string     `json:"html_content"`
	TemplateID   string     `json:"template_id"`
	IsPublished  bool       `json:"is_published"`
	Slug         *string    `json:"slug,omitempty"`
	CustomDomain *string    `json:"custom_domain,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Host returns the hostname the site is published under, or "" when the
// site is not published. baseDomain is the service's subdomain root.
func (s *GeneratedSite) Host(baseDomain string) string {
	if !s.IsPublished {
		return ""
	}
	if s.CustomDomain != nil && *s.CustomDomain != "" {
		return *s.CustomDomain
	}
	if s.Slug != nil && *s.Slug != "" {
		return *s.Slug + "." + baseDomain
	}
	return ""
}

// CreditEvent records a credit balance change, including deductions that
// failed after a site was already persisted.
type CreditEvent struct {
	ID        int64      `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	SiteID    *uuid.UUID `json:"site_id,omitempty"`
	Delta     int        `json:"delta"`
	Reason    string     `json:"reason"`
	Failed    bool       `json:"failed"`
	CreatedAt time.Time  `json:"created_at"`
}
