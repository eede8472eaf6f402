// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates URL-friendly slugs and validates the subdomain
// slugs and custom domains that sites are published under.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/go-sanitize"
)

// Limits for publish targets.
const (
	MinLength = 3
	MaxLength = 63
)

var (
	ErrInvalidSlug   = errors.New("invalid slug")
	ErrInvalidDomain = errors.New("invalid domain")
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// whitespace matches runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)

	validSlug   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	validDomain = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
)

// reserved subdomains that belong to the service itself.
var reserved = map[string]bool{
	"www": true, "api": true, "admin": true, "app": true,
	"mail": true, "static": true, "cdn": true, "dashboard": true,
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Joe's Diner & Grill" → "joes-diner-grill"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Validate checks that s can be used as a subdomain label.
func Validate(s string) error {
	switch {
	case len(s) < MinLength:
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidSlug, MinLength)
	case len(s) > MaxLength:
		return fmt.Errorf("%w: must be at most %d characters", ErrInvalidSlug, MaxLength)
	case !validSlug.MatchString(s):
		return fmt.Errorf("%w: use lowercase letters, digits and inner hyphens only", ErrInvalidSlug)
	case reserved[s]:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidSlug, s)
	}
	return nil
}

// NormalizeDomain lowercases a user-entered domain and strips any scheme,
// path, port and leading "www.", then validates the result. Domains under
// baseDomain are rejected since those are served as subdomain slugs.
func NormalizeDomain(raw, baseDomain string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: domain is required", ErrInvalidDomain)
	}

	domain, err := sanitize.Domain(raw, false, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}
	domain = strings.TrimSuffix(domain, ".")

	if len(domain) > 253 || !validDomain.MatchString(domain) {
		return "", fmt.Errorf("%w: %q is not a valid hostname", ErrInvalidDomain, raw)
	}

	base := strings.ToLower(baseDomain)
	if base != "" && (domain == base || strings.HasSuffix(domain, "."+base)) {
		return "", fmt.Errorf("%w: use a subdomain slug for %s", ErrInvalidDomain, base)
	}
	return domain, nil
}

// FromHost returns the subdomain label when host is a direct child of
// baseDomain, e.g. "joes-diner.pagesmith.site" → "joes-diner".
func FromHost(host, baseDomain string) (string, bool) {
	host = strings.ToLower(host)
	if i := strings.LastIndexByte(host, ':'); i != -1 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	suffix := "." + strings.ToLower(baseDomain)
	if baseDomain == "" || !strings.HasSuffix(host, suffix) {
		return "", false
	}
	label := strings.TrimSuffix(host, suffix)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}
