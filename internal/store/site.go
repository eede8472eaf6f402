// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

var (
	// ErrDuplicateSlug means another published site uses the slug.
	ErrDuplicateSlug = errors.New("slug already in use")
	// ErrDuplicateDomain means another published site uses the domain.
	ErrDuplicateDomain = errors.New("custom domain already in use")
)

// Constraint names Postgres assigns to the UNIQUE columns.
const (
	constraintSlug   = "generated_sites_slug_key"
	constraintDomain = "generated_sites_custom_domain_key"
)

const siteColumns = `id, owner_id, title, html_content, template_id, is_published, slug, custom_domain, published_at, created_at, updated_at`

// SiteStore handles GeneratedSite persistence. Every owner-facing method
// is scoped by owner so one user can never touch another's sites.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore creates a new SiteStore.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

func scanSite(row interface{ Scan(...any) error }) (*models.GeneratedSite, error) {
	s := &models.GeneratedSite{}
	err := row.Scan(&s.ID, &s.OwnerID, &s.Title, &s.HTMLContent, &s.TemplateID, &s.IsPublished,
		&s.Slug, &s.CustomDomain, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a new site and fills in its id and timestamps.
func (s *SiteStore) Create(site *models.GeneratedSite) error {
	err := s.db.QueryRow(`
		INSERT INTO generated_sites (owner_id, title, html_content, template_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, site.OwnerID, site.Title, site.HTMLContent, site.TemplateID).Scan(&site.ID, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

// FindForOwner retrieves a site owned by owner. Returns nil if it does
// not exist or belongs to someone else.
func (s *SiteStore) FindForOwner(id, owner uuid.UUID) (*models.GeneratedSite, error) {
	site, err := scanSite(s.db.QueryRow(`SELECT `+siteColumns+` FROM generated_sites WHERE id = $1 AND owner_id = $2`, id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site: %w", err)
	}
	return site, nil
}

// ListByOwner returns the owner's sites, newest first, without their
// HTML documents.
func (s *SiteStore) ListByOwner(owner uuid.UUID) ([]models.GeneratedSite, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, title, '' AS html_content, template_id, is_published, slug, custom_domain, published_at, created_at, updated_at
		FROM generated_sites WHERE owner_id = $1
		ORDER BY created_at DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	sites := []models.GeneratedSite{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, *site)
	}
	return sites, rows.Err()
}

// UpdateHTML replaces the whole document. Concurrent edits are
// last-write-wins. Returns false if no owned site matched.
func (s *SiteStore) UpdateHTML(id, owner uuid.UUID, html string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE generated_sites SET html_content = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, html, id, owner)
	if err != nil {
		return false, fmt.Errorf("update site html: %w", err)
	}
	return affected(res)
}

// Delete removes an owned site. Returns false if nothing matched.
func (s *SiteStore) Delete(id, owner uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM generated_sites WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return false, fmt.Errorf("delete site: %w", err)
	}
	return affected(res)
}

// Publish marks an owned site as published under exactly one of slug or
// customDomain; the other is cleared. Returns ErrDuplicateSlug or
// ErrDuplicateDomain when another site holds the address.
func (s *SiteStore) Publish(id, owner uuid.UUID, slug, customDomain *string) (*models.GeneratedSite, error) {
	site, err := scanSite(s.db.QueryRow(`
		UPDATE generated_sites
		SET is_published = TRUE, slug = $1, custom_domain = $2, published_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND owner_id = $4
		RETURNING `+siteColumns,
		slug, customDomain, id, owner))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case isUniqueViolation(err, constraintSlug):
		return nil, ErrDuplicateSlug
	case isUniqueViolation(err, constraintDomain):
		return nil, ErrDuplicateDomain
	case err != nil:
		return nil, fmt.Errorf("publish site: %w", err)
	}
	return site, nil
}

// Unpublish takes an owned site offline and releases its address.
// Returns the site as it was before, so callers can purge its host.
func (s *SiteStore) Unpublish(id, owner uuid.UUID) (*models.GeneratedSite, error) {
	before, err := s.FindForOwner(id, owner)
	if err != nil || before == nil {
		return before, err
	}

	_, err = s.db.Exec(`
		UPDATE generated_sites
		SET is_published = FALSE, slug = NULL, custom_domain = NULL, published_at = NULL, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`, id, owner)
	if err != nil {
		return nil, fmt.Errorf("unpublish site: %w", err)
	}
	return before, nil
}

// FindPublishedBySlug retrieves the published site with the given slug.
// Returns nil if none.
func (s *SiteStore) FindPublishedBySlug(slug string) (*models.GeneratedSite, error) {
	return s.findPublished(`slug = $1`, slug)
}

// FindPublishedByDomain retrieves the published site with the given
// custom domain. Returns nil if none.
func (s *SiteStore) FindPublishedByDomain(domain string) (*models.GeneratedSite, error) {
	return s.findPublished(`custom_domain = $1`, domain)
}

func (s *SiteStore) findPublished(where string, arg string) (*models.GeneratedSite, error) {
	site, err := scanSite(s.db.QueryRow(`SELECT `+siteColumns+` FROM generated_sites WHERE is_published AND `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published site: %w", err)
	}
	return site, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
