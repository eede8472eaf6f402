// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "slices"

// Layout is the coarse shape of a template.
type Layout string

const (
	LayoutSinglePage Layout = "single-page"
	LayoutSidebar    Layout = "sidebar"
	LayoutGrid       Layout = "grid"
)

// Template is a catalog entry describing a third-party page skeleton.
// Entries are immutable once the catalog is loaded.
type Template struct {
	ID          string   `yaml:"id" json:"id"`
	DisplayName string   `yaml:"name" json:"displayName"`
	SourcePath  string   `yaml:"source" json:"-"`
	StylePath   string   `yaml:"style" json:"-"`
	BestFor     []string `yaml:"best_for" json:"bestFor"`
	Vibe        []string `yaml:"vibe" json:"vibe"`
	Layout      Layout   `yaml:"layout" json:"layout"`
	Family      string   `yaml:"family" json:"family"`
}

// Suits reports whether the template declares the given business category.
func (t *Template) Suits(category string) bool {
	return category != "" && slices.Contains(t.BestFor, category)
}

// HasVibe reports whether the template declares the given style tag.
func (t *Template) HasVibe(vibe string) bool {
	return vibe != "" && slices.Contains(t.Vibe, vibe)
}
