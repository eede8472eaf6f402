// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"pagesmith/internal/models"
	"pagesmith/internal/slug"
)

// Public serves published sites by Host header. It checks the Valkey page
// cache before the database, and stores documents on miss.
type Public struct {
	sites      PublishedSites
	pages      PageCache // nil disables caching
	baseDomain string
}

// NewPublic creates a new Public handler. pages may be nil.
func NewPublic(sites PublishedSites, pages PageCache, baseDomain string) *Public {
	return &Public{sites: sites, pages: pages, baseDomain: baseDomain}
}

// ServeSite writes the published document for the request host.
func (p *Public) ServeSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	host, bySlug := p.canonicalHost(r.Host)
	if host == "" {
		http.NotFound(w, r)
		return
	}

	if p.pages != nil {
		if cached, ok := p.pages.Get(ctx, host); ok {
			writeSite(w, cached)
			return
		}
	}

	var site *models.GeneratedSite
	var err error
	if bySlug {
		site, err = p.sites.FindPublishedBySlug(strings.TrimSuffix(host, "."+p.baseDomain))
	} else {
		site, err = p.sites.FindPublishedByDomain(host)
	}
	if err != nil {
		slog.Error("published site lookup failed", "error", err, "host", host)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if site == nil {
		http.NotFound(w, r)
		return
	}

	doc := []byte(site.HTMLContent)
	if p.pages != nil {
		p.pages.Set(ctx, host, doc)
	}
	writeSite(w, doc)
}

// canonicalHost maps a request host to the host sites are published and
// cached under. Subdomains of the base domain are served by slug,
// anything else by custom domain with any leading "www." dropped.
func (p *Public) canonicalHost(raw string) (host string, bySlug bool) {
	if label, ok := slug.FromHost(raw, p.baseDomain); ok {
		return label + "." + p.baseDomain, true
	}
	domain, err := slug.NormalizeDomain(raw, p.baseDomain)
	if err != nil {
		return "", false
	}
	return domain, false
}

func writeSite(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(doc)
}
